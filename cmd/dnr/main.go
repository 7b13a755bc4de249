package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgallion1/dnrewrite/internal/parser"
	"github.com/dgallion1/dnrewrite/internal/phrase"
	"github.com/dgallion1/dnrewrite/internal/pipeline"
	"github.com/dgallion1/dnrewrite/internal/render"
	"github.com/dgallion1/dnrewrite/internal/rewrite"
	"github.com/dgallion1/dnrewrite/internal/stats"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	phraseFile string
	verbose    bool

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dnr",
	Short: "dnr - rewrite double negatives in documents",
	Long: `dnr finds double-negative phrases ("not uncommon", "don't disagree", ...)
in the visible text of a document and replaces them with their simpler form.

Replacements are marked with a highlighted span whose tooltip shows the original
text. Matches inside code blocks and other excluded regions are left as they are
and underlined instead.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&phraseFile, "phrases", os.Getenv("PHRASE_FILE"), "YAML phrase table (default: built-in table)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every replacement")

	rootCmd.AddCommand(rewriteCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(phrasesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// outputFlags are shared by the rewrite and watch commands.
type outputFlags struct {
	format   string
	banner   bool
	sanitize bool
	pdftext  bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "html", "output format: html, text or markdown")
	cmd.Flags().BoolVar(&f.banner, "banner", true, "inject the summary banner into HTML output")
	cmd.Flags().BoolVar(&f.sanitize, "sanitize", false, "sanitize HTML output")
	cmd.Flags().BoolVar(&f.pdftext, "pdftotext", true, "fall back to pdftotext for unreadable PDFs")
}

// newWorker loads the phrase table and builds a worker for the flags.
func newWorker(f outputFlags) (*pipeline.Worker, render.Format, error) {
	format, err := render.ParseFormat(f.format)
	if err != nil {
		return nil, "", err
	}
	table, err := phrase.LoadFile(phraseFile)
	if err != nil {
		return nil, "", fmt.Errorf("load phrases: %w", err)
	}
	w := pipeline.NewWorker(rewrite.New(table, logger), stats.New(time.Hour), logger, pipeline.Options{
		Format:       format,
		InjectBanner: f.banner,
		Sanitize:     f.sanitize,
		Parser:       parser.Options{PDFFallbackPdftotext: f.pdftext},
	})
	return w, format, nil
}
