package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dgallion1/dnrewrite/internal/pipeline"
	"github.com/dgallion1/dnrewrite/internal/render"
	"github.com/dgallion1/dnrewrite/internal/report"
	"github.com/dgallion1/dnrewrite/internal/rewrite"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	rewriteFlags outputFlags
	outDir       string
	inPlace      bool
	parallel     int
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [files...]",
	Short: "Rewrite double negatives in one or more documents",
	Long: `Rewrites each file and writes the result to --out, back over the input
(--in-place, HTML only) or, for a single file, to stdout.

Supported inputs: .html .htm .md .markdown .txt .csv .pdf .docx`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, format, err := newWorker(rewriteFlags)
		if err != nil {
			return err
		}
		if inPlace && format != render.FormatHTML {
			return fmt.Errorf("--in-place requires html output")
		}
		if outDir == "" && !inPlace && len(args) > 1 {
			return fmt.Errorf("--out is required for more than one file")
		}
		if outDir != "" {
			if err := checkOutputs(outDir, args, format); err != nil {
				return err
			}
		}

		var (
			mu     sync.Mutex
			total  rewrite.Result
			failed int
		)
		var g errgroup.Group
		g.SetLimit(max(1, parallel))
		for _, path := range args {
			g.Go(func() error {
				res, err := rewriteFile(w, path, format)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					logger.Error("rewrite failed", "path", path, "error", err)
					failed++
					return nil
				}
				total.Add(res)
				return nil
			})
		}
		_ = g.Wait()

		fmt.Fprint(cmd.ErrOrStderr(), report.Summary(total))
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	rewriteFlags.register(rewriteCmd)
	rewriteCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")
	rewriteCmd.Flags().BoolVar(&inPlace, "in-place", false, "overwrite HTML inputs")
	rewriteCmd.Flags().IntVarP(&parallel, "jobs", "j", 4, "files rewritten in parallel")
}

// rewriteFile rewrites one file and writes it to the configured destination.
func rewriteFile(w *pipeline.Worker, path string, format render.Format) (rewrite.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rewrite.Result{}, err
	}
	if inPlace && !isHTML(path) {
		return rewrite.Result{}, fmt.Errorf("--in-place only supports .html and .htm inputs")
	}

	out, err := w.Rewrite(filepath.Base(path), data, format)
	if err != nil {
		return rewrite.Result{}, err
	}

	switch {
	case inPlace:
		err = os.WriteFile(path, out.Content, 0o644)
	case outDir != "":
		err = writeOutput(outDir, path, format, out.Content)
	default:
		_, err = os.Stdout.Write(out.Content)
	}
	if err != nil {
		return rewrite.Result{}, err
	}
	logger.Info("rewrote", "path", path, "replaced", out.Result.Replaced, "skipped", out.Result.Skipped)
	return out.Result, nil
}

// outputPath maps an input file to its rewritten name inside dir.
func outputPath(dir, input string, format render.Format) string {
	base := filepath.Base(input)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+format.Ext())
}

// checkOutputs fails when two inputs would be written to the same file.
func checkOutputs(dir string, inputs []string, format render.Format) error {
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		out := outputPath(dir, in, format)
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, in, out)
		}
		seen[out] = in
	}
	return nil
}

func writeOutput(dir, input string, format render.Format, content []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath(dir, input, format), content, 0o644)
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
