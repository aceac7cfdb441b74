package main

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rustyhook/rustyhook/rhlog"
)

func runShowConfig(cmd *cobra.Command, stdout io.Writer, configPath, cacheRoot string) error {
	logger := rhlog.New()
	cfg, err := loadConfig(configPath, 0, logger, cacheRoot)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, string(data))
	exitCode = 0
	return nil
}
