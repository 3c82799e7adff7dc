// Command nudge classifies one enrolment export and writes the start and stop
// nudge tables to a directory.
//
//	nudge -in export.csv -out ./out
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/JonMunkholm/nudge/internal/core"
	"github.com/JonMunkholm/nudge/internal/history"
	"github.com/JonMunkholm/nudge/internal/logging"
	"github.com/JonMunkholm/nudge/internal/nudge"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("nudge", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "exported applications CSV (required)")
	out := fs.String("out", ".", "directory for "+nudge.StartFileName+" and "+nudge.StopFileName)
	policy := fs.String("policy", "reject", "unparseable timestamps: reject or sort-last")
	workers := fs.Int("workers", 4, "concurrent group classifiers")
	maxSize := fs.Int64("max-size", 50<<20, "largest accepted input in bytes")
	logLevel := fs.String("log-level", "warn", "debug, info, warn or error")
	logFormat := fs.String("log-format", "text", "text or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *in == "" {
		fmt.Fprintln(stderr, "nudge: -in is required")
		fs.Usage()
		return 2
	}
	timestamps, err := nudge.ParseTimestampPolicy(*policy)
	if err != nil {
		fmt.Fprintf(stderr, "nudge: %v\n", err)
		return 2
	}

	slog.SetDefault(logging.New(stderr, *logLevel, *logFormat))

	f, err := os.Open(*in)
	if err != nil {
		fmt.Fprintf(stderr, "nudge: %v\n", err)
		return 1
	}
	defer f.Close()

	service := core.NewService(history.NewMemoryStore(1), core.Options{
		Timestamps:    timestamps,
		Workers:       *workers,
		MaxFileSize:   *maxSize,
		MaxConcurrent: 1,
	})

	result, err := service.Run(ctx, filepath.Base(*in), f)
	if err != nil {
		fmt.Fprintf(stderr, "nudge: %s\n", core.FormatUserError(err))
		return 1
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintf(stderr, "nudge: %v\n", err)
		return 1
	}
	for _, table := range []string{history.TableStart, history.TableStop} {
		name, body, err := result.File(table)
		if err != nil {
			fmt.Fprintf(stderr, "nudge: %v\n", err)
			return 1
		}
		if err := os.WriteFile(filepath.Join(*out, name), body, 0o644); err != nil {
			fmt.Fprintf(stderr, "nudge: %v\n", err)
			return 1
		}
	}

	s := result.Summary
	fmt.Fprintf(stdout, "records: %d  students: %d  start: %d  stop: %d  default stops: %d  issues: %d\n",
		s.Records, s.Groups, s.StartRows, s.StopRows, s.DefaultStops, s.Issues)
	for _, iss := range result.Issues {
		fmt.Fprintf(stdout, "  line %d: %s %s\n", iss.Line, iss.Kind, iss.Message)
	}
	return 0
}
