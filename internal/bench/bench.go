// Package bench times repeated parses of one JSON document across several
// engines.
package bench

import (
	"context"
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/valyala/histogram"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one engine.
type Result struct {
	Engine     string
	Iterations int
	// Elapsed is wall-clock time for all iterations.
	Elapsed time.Duration
	// P50, P90 and P99 are per-parse latencies.
	P50, P90, P99 time.Duration
	// Err is set when the engine rejected the document. Timings are zero.
	Err error
}

// PerOp is the mean wall-clock time per parse.
func (r Result) PerOp() time.Duration {
	if r.Iterations == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Iterations)
}

type Report struct {
	File    string
	Size    int
	Host    Host
	Workers int
	Results []Result
}

// Run loads cfg.File and parses it cfg.Iterations times with each engine.
// Engines that reject the document are reported, not fatal.
func Run(ctx context.Context, logger log.Logger, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cfg.File)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", cfg.File)
	}
	level.Debug(logger).Log("msg", "loaded document", "file", cfg.File, "bytes", len(data))

	report := &Report{
		File:    cfg.File,
		Size:    len(data),
		Host:    DetectHost(),
		Workers: cfg.Workers,
	}
	text := string(data)

	for _, name := range cfg.Engines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger := log.With(logger, "engine", name)
		parse := engines[name]

		if err := parse(text, data); err != nil {
			level.Warn(logger).Log("msg", "engine rejected document", "err", err)
			report.Results = append(report.Results, Result{Engine: name, Err: err})
			continue
		}

		res, err := runEngine(ctx, parse, text, data, cfg.Iterations, cfg.Workers)
		if err != nil {
			return nil, errors.Wrapf(err, "running %s", name)
		}
		res.Engine = name
		level.Info(logger).Log("msg", "engine finished", "iterations", res.Iterations, "elapsed", res.Elapsed, "p50", res.P50)
		report.Results = append(report.Results, res)
	}
	return report, nil
}

// runEngine splits iterations across workers. Each worker records its own
// samples since histogram.Fast is not safe for concurrent use.
func runEngine(ctx context.Context, parse parseFunc, text string, data []byte, iterations, workers int) (Result, error) {
	samples := make([][]float64, workers)

	g, ctx := errgroup.WithContext(ctx)
	start := time.Now()
	for w := 0; w < workers; w++ {
		n := iterations / workers
		if w < iterations%workers {
			n++
		}
		g.Go(func() error {
			buf := make([]float64, 0, n)
			for i := 0; i < n; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				t := time.Now()
				if err := parse(text, data); err != nil {
					return err
				}
				buf = append(buf, float64(time.Since(t)))
			}
			samples[w] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	elapsed := time.Since(start)

	h := histogram.NewFast()
	for _, buf := range samples {
		for _, s := range buf {
			h.Update(s)
		}
	}
	q := h.Quantiles(nil, []float64{0.5, 0.9, 0.99})

	return Result{
		Iterations: iterations,
		Elapsed:    elapsed,
		P50:        time.Duration(q[0]),
		P90:        time.Duration(q[1]),
		P99:        time.Duration(q[2]),
	}, nil
}
