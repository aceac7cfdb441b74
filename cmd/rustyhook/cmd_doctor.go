package main

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/rustyhook/rustyhook/rhconfig"
	"github.com/rustyhook/rustyhook/resolver"
	"github.com/rustyhook/rustyhook/rhlog"
)

// runDoctor reports each hook's tool as installed/not-installed without
// provisioning anything: built-in hooks are always installed, system
// hooks are checked against PATH, and every other language is checked by
// the presence of its expected install directory under cacheRoot.
func runDoctor(cmd *cobra.Command, stdout io.Writer, configPath, cacheRoot string, skip []string) error {
	logger := rhlog.New()
	cfg, err := loadConfig(configPath, 0, logger, cacheRoot)
	if err != nil {
		return err
	}

	r := resolver.New(cfg, cacheRoot, skip, rhlog.Module(logger, "resolver"))
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	for _, repo := range cfg.Repos {
		for _, hook := range repo.Hooks {
			installed, reason := probeInstalled(r, hook)
			if installed {
				ok.Fprintf(stdout, "%-30s installed%s\n", hook.ID, reason)
			} else {
				bad.Fprintf(stdout, "%-30s not installed%s\n", hook.ID, reason)
			}
		}
	}
	exitCode = 0
	return nil
}

func probeInstalled(r *resolver.Resolver, hook rhconfig.Hook) (bool, string) {
	switch {
	case hook.HookType == rhconfig.HookBuiltin:
		return true, " (built-in)"
	case hook.Language == "system" || hook.Language == "system-command" || hook.Language == "":
		fields, err := shellquote.Split(hook.Entry)
		if err != nil || len(fields) == 0 {
			return false, " (unparseable entry)"
		}
		if _, err := exec.LookPath(fields[0]); err != nil {
			return false, " (not on PATH)"
		}
		return true, ""
	default:
		dir := r.InstallDir(hook)
		if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
			return true, " (" + filepath.Base(dir) + ")"
		}
		return false, " (" + strings.TrimPrefix(dir, filepath.Dir(filepath.Dir(dir))+string(filepath.Separator)) + ")"
	}
}
