package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dgallion1/dnrewrite/internal/parser"
	"github.com/dgallion1/dnrewrite/internal/report"
	"github.com/dgallion1/dnrewrite/internal/watch"
	"github.com/spf13/cobra"
)

var (
	watchFlags outputFlags
	watchOut   string
	watchDelay time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Rewrite documents in a directory whenever they change",
	Long: `Watches a directory and rewrites every supported document that is created
or modified, once it has been quiet for --delay. Results go to --out, which
must be a different directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		out, err := filepath.Abs(watchOut)
		if err != nil {
			return err
		}
		if out == dir {
			return fmt.Errorf("--out must differ from the watched directory")
		}

		w, format, err := newWorker(watchFlags)
		if err != nil {
			return err
		}

		handler := func(ctx context.Context, path string) error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			res, err := w.Rewrite(filepath.Base(path), data, format)
			if err != nil {
				return err
			}
			if err := writeOutput(out, path, format, res.Content); err != nil {
				return err
			}
			logger.Info("rewrote", "path", path, "replaced", res.Result.Replaced, "skipped", res.Result.Skipped)
			fmt.Fprint(cmd.ErrOrStderr(), report.Summary(res.Result))
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		wt := watch.New(dir, watchDelay, parser.IsSupportedExtension, handler, logger)
		if err := wt.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		wt.Stop()

		st := wt.Stats()
		logger.Info("watch stopped", "handled", st.Handled, "errors", st.Errors)
		return nil
	},
}

func init() {
	watchFlags.register(watchCmd)
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "dnr-out", "output directory")
	watchCmd.Flags().DurationVar(&watchDelay, "delay", time.Second, "quiet period before a changed file is rewritten")
}
