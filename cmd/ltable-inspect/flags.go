package main

// flags.go defines the CLI's flag set, separated from main.go so the option
// struct can be unit-tested independently of network I/O.
//
// © 2025 ltable authors. MIT License.

import (
	"flag"
	"os"
	"time"
)

type options struct {
	target           string
	json             bool
	watch            bool
	interval         time.Duration
	heapProfile      string
	goroutineProfile string
	version          bool
}

func parseFlags() *options {
	opts := &options{}

	fs := flag.NewFlagSet("ltable-inspect", flag.ExitOnError)
	fs.StringVar(&opts.target, "target", "http://localhost:8080", "base URL of the instrumented process")
	fs.BoolVar(&opts.json, "json", false, "print the raw JSON snapshot instead of a formatted summary")
	fs.BoolVar(&opts.watch, "watch", false, "poll the snapshot endpoint repeatedly")
	fs.DurationVar(&opts.interval, "interval", 2*time.Second, "poll interval used with -watch")
	fs.StringVar(&opts.heapProfile, "heap-profile", "", "download a heap pprof profile to this path and exit")
	fs.StringVar(&opts.goroutineProfile, "goroutine-profile", "", "download a goroutine pprof profile to this path and exit")
	fs.BoolVar(&opts.version, "version", false, "print the CLI version and exit")

	fs.Parse(os.Args[1:])
	return opts
}
