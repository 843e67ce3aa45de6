package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/theapemachine/errnie"

	qsynth "github.com/mia-platform/quantum-synthetic-data-generator-experimemt"
	"github.com/mia-platform/quantum-synthetic-data-generator-experimemt/store"
)

var (
	configPath string
	seed       uint64
	count      int
	workers    int
	format     string
	outPath    string
	parallel   bool
	rate       int
)

var rootCmd = &cobra.Command{
	Use:   "qsynth",
	Short: "Quantum-circuit synthetic record generator",
	Long: `qsynth samples every feature of a record from a small simulated quantum circuit.
Correlated features are coupled through controlled rotations and entangling gates, and a
fixed seed reproduces the exact same records.`,
	SilenceUsage: true,
}

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Generate book metadata records",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(gen *qsynth.Generator) generator[qsynth.Sample] {
			return generator[qsynth.Sample]{one: gen.Sample, many: gen.Parallel}
		})
	},
}

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "Generate demographic records",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(gen *qsynth.Generator) generator[qsynth.Person] {
			return generator[qsynth.Person]{one: gen.Person, many: gen.ParallelPeople}
		})
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (yaml, json or toml)")
	flags.Uint64Var(&seed, "seed", 42, "top-level random seed")
	flags.IntVar(&count, "count", 50, "number of records")
	flags.IntVar(&workers, "workers", 4, "worker count for --parallel")
	flags.StringVar(&format, "format", "json", "output format: json, jsonl, msgpack, sqlite")
	flags.StringVarP(&outPath, "out", "o", "", "output file (stdout when empty; required for sqlite)")
	flags.BoolVar(&parallel, "parallel", false, "generate on a worker pool")
	flags.IntVar(&rate, "rate", 0, "maximum records started per second (0 = unpaced)")

	rootCmd.AddCommand(booksCmd, peopleCmd)
}

type generator[T any] struct {
	one  func(qsynth.RandomSource) (T, error)
	many func(context.Context, *qsynth.Pool, int, qsynth.RandomSource) ([]qsynth.Result[T], error)
}

func run[T any](cmd *cobra.Command, pick func(*qsynth.Generator) generator[T]) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	gen, err := qsynth.NewGenerator(qsynth.DefaultCatalog(), cfg)
	if err != nil {
		return err
	}

	out, err := openWriter(ctx)
	if err != nil {
		return err
	}
	defer out.Close()

	var (
		g       = pick(gen)
		src     = qsynth.NewSource(cfg.Seed)
		breaker = qsynth.NewBreaker(cfg.MaxConsecutiveFailures)
		written int
	)

	sink := func(r qsynth.Result[T]) error {
		written++
		return out.Write(r.Value)
	}

	var limiter *qsynth.RateLimiter
	if cfg.Rate > 0 {
		limiter = qsynth.PerSecond(cfg.Rate)
	}

	if parallel {
		pool := qsynth.NewPool(cfg.Workers).Throttle(limiter)

		results, err := g.many(ctx, pool, cfg.Count, src)
		if err != nil {
			return err
		}

		for _, r := range results {
			if r.Err != nil {
				if breaker.RecordFailure(); !breaker.Allow() {
					return breaker.Err()
				}
				continue
			}
			breaker.RecordSuccess()
			if err := sink(r); err != nil {
				return err
			}
		}

		errnie.Info("pool metrics %v", pool.Metrics().ExportMetrics())
	} else if err := qsynth.Drive(ctx, cfg.Count, src, paced(ctx, limiter, g.one), breaker, sink); err != nil {
		return err
	}

	if err := out.Close(); err != nil {
		return err
	}

	errnie.Info("wrote %d of %d records (%d failed, seed %d)", written, cfg.Count, breaker.Failures(), cfg.Seed)
	return nil
}

// paced holds each record back until limiter admits it.
func paced[T any](ctx context.Context, limiter *qsynth.RateLimiter, fn func(qsynth.RandomSource) (T, error)) func(qsynth.RandomSource) (T, error) {
	if limiter == nil {
		return fn
	}

	return func(src qsynth.RandomSource) (T, error) {
		if err := limiter.Wait(ctx); err != nil {
			var zero T
			return zero, err
		}
		return fn(src)
	}
}

// loadConfig reads the config file and lets explicitly set flags win over it.
func loadConfig(cmd *cobra.Command) (*qsynth.Config, error) {
	cfg, err := qsynth.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("count") {
		cfg.Count = count
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("rate") {
		cfg.Rate = rate
	}

	return cfg, cfg.Validate()
}

// output closes its writer and the file underneath once, however many times Close is called.
type output struct {
	store.Writer
	file   io.Closer
	closed bool
}

func (o *output) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	err := o.Writer.Close()
	if o.file != nil {
		if fileErr := o.file.Close(); err == nil {
			err = fileErr
		}
	}
	return err
}

func openWriter(ctx context.Context) (*output, error) {
	f, err := store.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	if f == store.FormatSQLite {
		if outPath == "" {
			return nil, fmt.Errorf("--out is required for sqlite output")
		}
		db, err := store.OpenSQLite(ctx, outPath)
		if err != nil {
			return nil, err
		}
		return &output{Writer: db}, nil
	}

	if outPath == "" {
		writer, err := store.NewWriter(f, os.Stdout)
		if err != nil {
			return nil, err
		}
		return &output{Writer: writer}, nil
	}

	file, err := os.Create(outPath)
	if err != nil {
		return nil, err
	}

	writer, err := store.NewWriter(f, file)
	if err != nil {
		file.Close()
		return nil, err
	}

	return &output{Writer: writer, file: file}, nil
}
