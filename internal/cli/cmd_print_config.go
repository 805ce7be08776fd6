package cli

import (
	"context"
	"path/filepath"

	flag "github.com/spf13/pflag"
)

// newPrintConfigCommand returns the print-config command.
func newPrintConfigCommand(cfg Config, sources ConfigSources, workDir string) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execPrintConfig(o, cfg, sources, workDir)
		},
	}
}

func execPrintConfig(o *IO, cfg Config, sources ConfigSources, workDir string) error {
	cacheDir := cfg.CacheDir
	if !filepath.IsAbs(cacheDir) {
		cacheDir = filepath.Join(workDir, cacheDir)
	}

	o.Println("cache_dir=" + cacheDir)
	o.Println("base_url=" + cfg.BaseURL)
	o.Println("annotation_key=" + cfg.AnnotationKey)
	o.Printf("delay_ms=%d\n", cfg.DelayMS)

	o.Println("")
	o.Println("# sources")

	if sources.Global == "" && sources.Project == "" {
		o.Println("(defaults only)")
	} else {
		if sources.Global != "" {
			o.Println("global_config=" + sources.Global)
		}

		if sources.Project != "" {
			o.Println("project_config=" + sources.Project)
		}
	}

	return nil
}
