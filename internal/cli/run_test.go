package cli

import (
	"strings"
	"testing"
)

func TestRunNoArgsPrintsUsage(t *testing.T) {
	t.Parallel()

	cli := NewCLI(t)

	stdout, _, code := cli.Run()
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	if !strings.Contains(stdout, "Usage: protmass") {
		t.Errorf("expected usage output, got:\n%s", stdout)
	}
}

func TestRunHelpFlag(t *testing.T) {
	t.Parallel()

	cli := NewCLI(t)

	stdout, _, code := cli.Run("--help")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	if !strings.Contains(stdout, "Commands:") {
		t.Errorf("expected command listing, got:\n%s", stdout)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	t.Parallel()

	cli := NewCLI(t)

	_, stderr, code := cli.Run("frobnicate")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}

	if !strings.Contains(stderr, "unknown command: frobnicate") {
		t.Errorf("expected unknown command error, got:\n%s", stderr)
	}
}

func TestRunCommandHelp(t *testing.T) {
	t.Parallel()

	cli := NewCLI(t)

	stdout, _, code := cli.Run("map", "--help")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	if !strings.Contains(stdout, "Usage: protmass map") {
		t.Errorf("expected map help, got:\n%s", stdout)
	}

	if !strings.Contains(stdout, "--annotation-key") {
		t.Errorf("expected flag listing, got:\n%s", stdout)
	}
}

func TestPrintConfig(t *testing.T) {
	t.Parallel()

	cli := NewCLI(t)

	stdout, _, code := cli.Run("print-config")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	for _, want := range []string{"cache_dir=", "base_url=", "annotation_key=uniprot", "delay_ms=400", "(defaults only)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("print-config output missing %q:\n%s", want, stdout)
		}
	}
}
