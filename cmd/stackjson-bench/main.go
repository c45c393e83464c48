// Command stackjson-bench parses a JSON file repeatedly and reports how long
// each engine took.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/biggeezerdevelopment/stackjson/internal/bench"
)

func main() {
	app := kingpin.New("stackjson-bench", "Parse a JSON file repeatedly and report timings per engine.")
	app.HelpFlag.Short('h')

	var (
		iterationsSet, workersSet, enginesSet bool

		configFile = app.Flag("config.file", "YAML file with benchmark settings. Flags override it.").String()
		iterations = app.Flag("iterations", "Parses per engine.").Short('n').Default(fmt.Sprint(bench.DefaultIterations)).IsSetByUser(&iterationsSet).Int()
		workers    = app.Flag("workers", "Goroutines sharing the iterations of each engine.").Short('w').Default("1").IsSetByUser(&workersSet).Int()
		engines    = app.Flag("engine", "Engine to run. Repeat for several. Known: "+strings.Join(bench.EngineNames(), ", ")+".").Short('e').IsSetByUser(&enginesSet).Strings()
		logLevel   = app.Flag("log.level", "Only log messages with the given severity or above.").Default("info").Enum("debug", "info", "warn", "error")
		file       = app.Arg("file", "JSON document to parse.").String()
	)

	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger := newLogger(*logLevel)

	cfg := bench.DefaultConfig()
	if *configFile != "" {
		f, err := os.Open(*configFile)
		if err != nil {
			exitWithErr(errors.Wrap(err, "failed to open config"))
		}
		cfg, err = bench.LoadConfig(f)
		_ = f.Close()
		if err != nil {
			exitWithErr(errors.Wrapf(err, "loading %s", *configFile))
		}
	}
	if *file != "" {
		cfg.File = *file
	}
	if iterationsSet {
		cfg.Iterations = *iterations
	}
	if workersSet {
		cfg.Workers = *workers
	}
	if enginesSet {
		cfg.Engines = *engines
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := bench.Run(ctx, logger, cfg)
	if err != nil {
		exitWithErr(err)
	}
	printReport(report)
}

func newLogger(lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}
	return level.NewFilter(logger, opt)
}

func printReport(r *bench.Report) {
	bold := color.New(color.Bold)
	bold.Println("Document:")
	fmt.Printf("\t%s, %v\n", r.File, humanize.Bytes(uint64(r.Size)))
	fmt.Printf("\thost: %s, cpus: %d, workers: %d\n", r.Host, r.Host.NumCPU, r.Workers)

	bold.Println("Engines:")
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "\tengine\titerations\ttotal\tper parse\tthroughput\tp50\tp90\tp99")
	for _, res := range r.Results {
		if res.Err != nil {
			fmt.Fprintf(tw, "\t%s\t%s\n", res.Engine, color.RedString("rejected: %v", res.Err))
			continue
		}
		throughput := "-"
		if secs := res.Elapsed.Seconds(); secs > 0 {
			throughput = humanize.Bytes(uint64(float64(r.Size*res.Iterations)/secs)) + "/s"
		}
		fmt.Fprintf(tw, "\t%s\t%s\t%v\t%v\t%s\t%v\t%v\t%v\n",
			color.GreenString(res.Engine),
			humanize.Comma(int64(res.Iterations)),
			res.Elapsed, res.PerOp(), throughput,
			res.P50, res.P90, res.P99,
		)
	}
	_ = tw.Flush()
}

func exitWithErr(err error) {
	color.Red("error: %v", err)
	os.Exit(1)
}
