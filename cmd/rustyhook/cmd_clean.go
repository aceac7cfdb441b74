package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rustyhook/rustyhook/cache"
)

func runClean(cmd *cobra.Command, stdout io.Writer, cacheRoot string) error {
	store := cache.New(cacheRoot, 0)
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "cleared %s\n", cacheRoot)
	exitCode = 0
	return nil
}
