package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"insider-data/internal/app"
	"insider-data/internal/slogx"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	tickerFile := flag.String("f", "", "file with ticker symbols or CIKs, one per line")
	outputPath := flag.String("s", "", "output dataset path (overrides LINK)")
	noCombine := flag.Bool("d", false, "disable combining trades across adjacent dates")
	filingLimit := flag.Int("l", cfg.FilingLimit, "filing limit per issuer (-1 for no limit)")
	appendMode := flag.Bool("a", false, "append new data without deduplication")
	rewriteMode := flag.Bool("r", false, "discard existing data and write fresh")
	flag.Parse()

	if *tickerFile != "" {
		cfg.TickerFile = *tickerFile
	}
	if *outputPath != "" {
		cfg.OutputPath = *outputPath
	}
	if *noCombine {
		cfg.CombineDates = false
	}
	cfg.FilingLimit = *filingLimit
	switch {
	case *appendMode && *rewriteMode:
		fmt.Fprintln(os.Stderr, "-a and -r are mutually exclusive")
		os.Exit(2)
	case *appendMode:
		cfg.SavePolicy = "append"
	case *rewriteMode:
		cfg.SavePolicy = "rewrite"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	slog.SetDefault(slogx.NewDefault(cfg.LogLevel))

	symbols := flag.Args()
	if cfg.TickerFile != "" {
		fromFile, err := app.TickersFromFile(cfg.TickerFile)
		if err != nil {
			slog.Error("could not read ticker file", "path", cfg.TickerFile, "error", err)
			os.Exit(2)
		}
		symbols = append(fromFile, symbols...)
	}
	if len(symbols) == 0 {
		fmt.Fprintln(os.Stderr, "no tickers given: pass symbols as arguments or a file via -f")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, symbols); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}
