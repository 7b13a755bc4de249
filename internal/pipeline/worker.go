package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/dnrewrite/internal/parser"
	"github.com/dgallion1/dnrewrite/internal/render"
	"github.com/dgallion1/dnrewrite/internal/report"
	"github.com/dgallion1/dnrewrite/internal/rewrite"
	"github.com/dgallion1/dnrewrite/internal/stats"
)

// Options control how a document is rewritten and rendered.
type Options struct {
	Format       render.Format
	InjectBanner bool
	Sanitize     bool
	Parser       parser.Options
}

// Output is a rewritten, rendered document.
type Output struct {
	Content     []byte         `json:"-"`
	ContentType string         `json:"content_type"`
	Result      rewrite.Result `json:"result"`
	Duration    time.Duration  `json:"-"`
}

// Worker rewrites documents with a shared engine.
type Worker struct {
	engine *rewrite.Engine
	stats  *stats.RunStats
	log    *slog.Logger
	opts   Options
}

func NewWorker(engine *rewrite.Engine, st *stats.RunStats, log *slog.Logger, opts Options) *Worker {
	return &Worker{
		engine: engine,
		stats:  st,
		log:    log,
		opts:   opts,
	}
}

// Process runs the full rewrite pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "queued")
		return
	}

	opts := w.opts
	if job.Format != "" {
		opts.Format = job.Format
	}

	out, err := w.rewrite(job.Filename, job.FileData(), opts, func(s JobStatus) {
		job.SetStatus(s, string(s))
	})
	if err != nil {
		log.Error("rewrite failed", "phase", job.Snapshot().Phase, "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, job.Snapshot().Phase)
		return
	}

	job.SetResult(out.Result)
	job.SetOutput(out)
	job.SetStatus(StatusCompleted, "done")
	log.Info("rewrite complete",
		"replaced", out.Result.Replaced,
		"skipped", out.Result.Skipped,
		"duration_ms", out.Duration.Milliseconds(),
	)
}

// Rewrite processes one document synchronously with the worker's options,
// overriding the output format when f is set.
func (w *Worker) Rewrite(filename string, data []byte, f render.Format) (*Output, error) {
	opts := w.opts
	if f != "" {
		opts.Format = f
	}
	return w.rewrite(filename, data, opts, nil)
}

func (w *Worker) rewrite(filename string, data []byte, opts Options, phase func(JobStatus)) (*Output, error) {
	if phase == nil {
		phase = func(JobStatus) {}
	}
	start := time.Now()

	phase(StatusParsing)
	p, err := parser.ForFile(filename, opts.Parser)
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	phase(StatusRewriting)
	res := w.engine.RewriteDocument(doc)

	phase(StatusRendering)
	if opts.Format == render.FormatHTML {
		// Sanitize before the banner goes in; the policy strips its styles.
		if opts.Sanitize {
			if doc, err = render.SanitizeDocument(doc); err != nil {
				return nil, fmt.Errorf("sanitize: %w", err)
			}
		}
		if opts.InjectBanner {
			report.InjectBanner(doc, res)
		}
	}
	content, err := render.Render(doc, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	elapsed := time.Since(start)
	if w.stats != nil {
		w.stats.Record(elapsed, res.Replaced, res.Skipped)
	}
	return &Output{
		Content:     content,
		ContentType: opts.Format.ContentType(),
		Result:      res,
		Duration:    elapsed,
	}, nil
}
