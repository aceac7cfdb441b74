package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rustyhook/rustyhook/resolver"
	"github.com/rustyhook/rustyhook/rhlog"
	"github.com/rustyhook/rustyhook/scheduler"
)

type runOpts struct {
	configPath  string
	cacheRoot   string
	parallelism int
	failFast    bool
	skip        []string
}

func runRun(cmd *cobra.Command, files []string, stdout, stderr io.Writer, opts runOpts) error {
	logger := rhlog.New()

	cfg, err := loadConfig(opts.configPath, opts.parallelism, logger, opts.cacheRoot)
	if err != nil {
		exitCode = 1
		return err
	}
	if opts.parallelism != 0 {
		cfg.Parallelism = opts.parallelism
	}
	if opts.failFast {
		cfg.FailFast = true
	}

	wd, err := os.Getwd()
	if err != nil {
		exitCode = 1
		return err
	}

	r := resolver.New(cfg, opts.cacheRoot, opts.skip, rhlog.Module(logger, "resolver"))
	s := scheduler.New(r, wd, cfg.Parallelism, cfg.FailFast)

	if len(files) == 0 {
		files = []string{"."}
	}

	runErr := s.Run(context.Background(), files)
	if runErr != nil {
		color.New(color.FgRed, color.Bold).Fprintln(stdout, "FAIL")
		fmt.Fprintln(stdout, runErr)
		exitCode = 1
		return nil
	}

	color.New(color.FgGreen, color.Bold).Fprintln(stdout, "PASS")
	exitCode = 0
	return nil
}
