package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pdfcheck/analyzer"
	"pdfcheck/checkpoint"
	"pdfcheck/config"
	"pdfcheck/corpus"
	"pdfcheck/observability"
	"pdfcheck/oracle"
	"pdfcheck/report"
)

func batchCmd() *cobra.Command {
	var (
		configFile     string
		concurrency    int
		timeout        time.Duration
		batchSize      int
		progressEvery  int
		resume         bool
		checkpointFile string
		reportFile     string
		oracleCmd      string
		maxIssues      int
		pattern        string
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Analyze every matching file under a directory",
		Long:  "batch runs the structural analyzer over a corpus directory with a bounded worker pool, periodic checkpointing, and an optional external oracle for cross-validation. An interrupted run resumes from its checkpoint with --resume.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configFile != "" {
				var err error
				cfg, err = config.Load(configFile)
				if err != nil {
					return err
				}
			}
			cfg.CorpusDir = args[0]
			flags := cmd.Flags()
			if flags.Changed("concurrency") {
				cfg.Concurrency = concurrency
			}
			if flags.Changed("timeout") {
				cfg.PerFileTimeout = config.Duration(timeout)
			}
			if flags.Changed("batch-size") {
				cfg.BatchSize = batchSize
			}
			if flags.Changed("progress-every") {
				cfg.ProgressEvery = progressEvery
			}
			if flags.Changed("checkpoint-file") {
				cfg.CheckpointFile = checkpointFile
			}
			if flags.Changed("report") {
				cfg.ReportFile = reportFile
			}
			if flags.Changed("oracle") {
				cfg.Oracle.Command = oracleCmd
			}
			if flags.Changed("max-issues") {
				cfg.MaxIssues = maxIssues
			}
			if flags.Changed("pattern") {
				cfg.Pattern = pattern
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runBatch(cmd, cfg, resume)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configFile, "config", "c", "", "YAML config file")
	f.IntVar(&concurrency, "concurrency", 4, "worker pool size")
	f.DurationVar(&timeout, "timeout", 30*time.Second, "per-file analysis timeout")
	f.IntVar(&batchSize, "batch-size", 50, "files per checkpointed batch")
	f.IntVar(&progressEvery, "progress-every", 10, "progress line cadence in files")
	f.BoolVar(&resume, "resume", false, "resume from an existing checkpoint")
	f.StringVar(&checkpointFile, "checkpoint-file", "pdf_analysis_checkpoint.json", "checkpoint path")
	f.StringVar(&reportFile, "report", "", "write the final JSON report to this path")
	f.StringVar(&oracleCmd, "oracle", "", "external analyzer executable for cross-validation")
	f.IntVar(&maxIssues, "max-issues", 100, "cap on sampled compatibility issues")
	f.StringVar(&pattern, "pattern", "*.pdf", "glob matched against file names")

	return cmd
}

func runBatch(cmd *cobra.Command, cfg config.Run, resume bool) error {
	logger := newLogger()
	out := cmd.OutOrStdout()

	files, err := collectFiles(cfg.CorpusDir, cfg.Pattern)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files matching %q under %s", cfg.Pattern, cfg.CorpusDir)
	}

	store := checkpoint.NewStore(cfg.CheckpointFile)
	if !resume {
		// A fresh run must not silently skip files recorded by a previous one.
		if err := store.Clear(); err != nil {
			return fmt.Errorf("clear stale checkpoint: %w", err)
		}
	}

	var an corpus.Analyzer = analyzer.NewStructural(analyzer.Config{Logger: logger})
	if cfg.Oracle.Command != "" {
		an = corpus.Compare{
			Primary: an,
			Oracle: oracle.New(oracle.Config{
				Path:   cfg.Oracle.Command,
				Args:   cfg.Oracle.Args,
				Logger: logger,
			}),
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := &corpus.Harness{
		Analyzer:  an,
		Store:     store,
		Logger:    logger,
		MaxIssues: cfg.MaxIssues,
		Config: corpus.Config{
			Concurrency:    cfg.Concurrency,
			PerFileTimeout: cfg.PerFileTimeout.Std(),
			BatchSize:      cfg.BatchSize,
			ProgressEvery:  cfg.ProgressEvery,
			OnProgress: func(p corpus.Progress) {
				fmt.Fprintf(out, "progress: %d/%d (%.1f files/s, ETA %s)\n",
					p.Completed, p.Total, p.Rate, p.ETA.Round(time.Second))
			},
		},
	}

	start := time.Now()
	stats, err := h.Run(ctx, files)
	if err != nil {
		return err
	}

	final := report.Build(stats, time.Since(start))
	if cfg.ReportFile != "" {
		rf, err := os.Create(cfg.ReportFile)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer rf.Close()
		if err := final.WriteJSON(rf); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("report written", observability.String("path", cfg.ReportFile))
	}
	if err := final.WriteSummary(out); err != nil {
		return err
	}

	if ctx.Err() != nil {
		fmt.Fprintf(out, "interrupted; resume with --resume --checkpoint-file %s\n", cfg.CheckpointFile)
	}
	return nil
}

// collectFiles walks the corpus directory and returns matching files in a
// stable order so runs over the same tree are comparable.
func collectFiles(dir, pattern string) ([]corpus.FileRef, error) {
	var files []corpus.FileRef
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if ok {
			files = append(files, corpus.NewFileRef(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus: %w", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}
