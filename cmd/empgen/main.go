// Command empgen writes synthesized employee records as NDJSON, one per
// line, at a steady rate. Point empgrid at the output with -file -follow.
//
// Generated ids carry -prefix so they never collide with the numeric ids
// empgrid synthesizes on load-more.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"empgrid/internal/export"
	"empgrid/internal/model"
	"empgrid/internal/source"
)

func main() {
	var (
		count    int
		prefix   string
		start    int
		rate     float64
		outPath  string
		toStdout bool
		duration time.Duration
		seed     int64
	)
	flag.IntVar(&count, "count", 0, "Number of records to write; 0 means until interrupted")
	flag.StringVar(&prefix, "prefix", "gen-", "Prefix for generated ids; keep non-numeric to stay clear of empgrid's own ids")
	flag.IntVar(&start, "start", 1000, "First record id number")
	flag.Float64Var(&rate, "rate", 5.0, "Records per second; 0 writes as fast as possible")
	flag.StringVar(&outPath, "out", "", "Output file path (appended to)")
	flag.BoolVar(&toStdout, "stdout", false, "Write to stdout instead of a file")
	flag.DurationVar(&duration, "duration", 0, "Optional run duration (e.g. 30s); 0 means no limit")
	flag.Int64Var(&seed, "seed-rand", 0, "Random seed; 0 uses the clock")
	flag.Parse()

	if !toStdout && outPath == "" {
		fmt.Fprintln(os.Stderr, "either --stdout or --out is required")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if duration > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, duration)
		defer stop()
	}

	var w io.Writer = os.Stdout
	if !toStdout {
		f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open %s: %v\n", outPath, err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
		fmt.Fprintf(os.Stderr, "generating employees -> %s at %.2f rec/s\n", outPath, rate)
	}

	src := source.NewRandom()
	if seed != 0 {
		src = source.New(seed)
	}
	n, err := run(ctx, bufio.NewWriter(w), src, prefix, start, count, rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "wrote %d records\n", n)
}

// run writes records until count is reached or ctx ends. Each record is
// flushed on its own so a follower sees complete lines.
func run(ctx context.Context, w *bufio.Writer, src *source.Source, prefix string, start, count int, rate float64) (int, error) {
	var tick <-chan time.Time
	if rate > 0 {
		t := time.NewTicker(tickInterval(rate))
		defer t.Stop()
		tick = t.C
	}
	written := 0
	for count <= 0 || written < count {
		if tick != nil {
			select {
			case <-ctx.Done():
				return written, nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return written, nil
		}
		recs := src.Synthesize(1, start+written)
		recs[0].ID = prefix + recs[0].ID
		if err := writeOne(w, recs); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// tickInterval converts a positive rate to a ticker period of at least 1ns.
func tickInterval(rate float64) time.Duration {
	d := time.Duration(float64(time.Second) / rate)
	if d < time.Nanosecond {
		return time.Nanosecond
	}
	return d
}

func writeOne(w *bufio.Writer, recs []model.Employee) error {
	if err := export.WriteNDJSON(w, recs); err != nil {
		return err
	}
	return w.Flush()
}
