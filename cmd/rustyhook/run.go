package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "rustyhook: %v\n", err)
		return 1
	}
	return exitCode
}

// exitCode lets subcommands (run, in particular) signal a non-zero exit
// for a reported hook failure without that failure being a cobra error
// (which would print Go's default usage banner on a plain run failure).
var exitCode int

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var configPath string
	var cacheRoot string
	var parallelism int
	var failFast bool
	var skip []string

	rootCmd := &cobra.Command{
		Use:           "rustyhook",
		Short:         "A git hook runner with hermetic per-language tool provisioning",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: .rustyhook.yaml or .pre-commit-config.yaml)")
	rootCmd.PersistentFlags().StringVar(&cacheRoot, "cache-root", defaultCacheRoot(), "root directory for provisioned tools and caches")
	rootCmd.PersistentFlags().IntVar(&parallelism, "parallelism", 0, "max concurrent hooks per batch (0 = unbounded)")
	rootCmd.PersistentFlags().BoolVar(&failFast, "fail-fast", false, "stop scheduling further batches after the first failure")
	rootCmd.PersistentFlags().StringSliceVar(&skip, "skip", nil, "hook ids to skip")

	runCmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Resolve configuration and run hooks against the given files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, stdout, stderr, runOpts{
				configPath: configPath, cacheRoot: cacheRoot,
				parallelism: parallelism, failFast: failFast, skip: skip,
			})
		},
	}

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Report installed/not-installed status for every hook's tool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, stdout, configPath, cacheRoot, skip)
		},
	}

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Empty the cache root (provisioned tools, downloads, clones)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, stdout, cacheRoot)
		},
	}

	showConfigCmd := &cobra.Command{
		Use:   "show-config",
		Short: "Print the merged, resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowConfig(cmd, stdout, configPath, cacheRoot)
		},
	}

	rootCmd.AddCommand(runCmd, doctorCmd, cleanCmd, showConfigCmd)
	return rootCmd
}

func defaultCacheRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return ".rustyhook/cache"
	}
	return filepath.Join(wd, ".rustyhook", "cache")
}
