// Package cli implements the protmass command line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	flag "github.com/spf13/pflag"
)

// Run is the main entry point. Returns exit code.
func Run(_ io.Reader, out, errOut io.Writer, args []string, env map[string]string, sig <-chan os.Signal) int {
	o := NewIO(out, errOut)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sig != nil {
		go func() {
			select {
			case <-sig:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	globals := flag.NewFlagSet("protmass", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(io.Discard)

	workDir := globals.String("cwd", "", "working directory (default: current directory)")
	configPath := globals.String("config", "", "explicit config file")

	parseErr := globals.Parse(args[1:])
	if parseErr != nil {
		if errors.Is(parseErr, flag.ErrHelp) {
			printUsage(o)

			return 0
		}

		o.ErrPrintln("error:", parseErr)
		printUsage(o)

		return 1
	}

	if *workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			o.ErrPrintln("error: cannot get working directory:", err)

			return 1
		}

		*workDir = cwd
	}

	cfg, sources, err := LoadConfig(*workDir, *configPath, env)
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	remaining := globals.Args()
	if len(remaining) == 0 || remaining[0] == "-h" || remaining[0] == "--help" {
		printUsage(o)

		return 0
	}

	commands := []*Command{
		newMapCommand(cfg, *workDir),
		newPrintConfigCommand(cfg, sources, *workDir),
	}

	name := remaining[0]

	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd.Run(ctx, o, remaining[1:])
		}
	}

	o.ErrPrintln("error: unknown command:", name)
	printUsage(o)

	return 1
}

func printUsage(o *IO) {
	o.Println("Usage: protmass [--cwd <dir>] [--config <file>] <command> [flags]")
	o.Println()
	o.Println("Resolve the UniProt accessions of a metabolic model's genes to")
	o.Println("protein masses and write a gene ID -> mass mapping JSON.")
	o.Println()
	o.Println("Commands:")
	o.Println("  map -m <model.json> -n <name> [flags]  resolve masses and write the mapping")
	o.Println("  print-config                           show resolved configuration")
	o.Println()
	o.Println("Run 'protmass <command> --help' for command details.")
}
