package cli

import (
	"context"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	"protmass/internal/masscache"
	"protmass/internal/protein"
	"protmass/internal/uniprot"
)

// newMapCommand returns the map command, the primary workflow:
// load the model, resolve accessions to masses, write the mapping.
func newMapCommand(cfg Config, workDir string) *Command {
	flags := flag.NewFlagSet("map", flag.ContinueOnError)

	modelPath := flags.StringP("model", "m", "", "path to the metabolic model JSON (required)")
	projectName := flags.StringP("name", "n", "", "project name prefixing the output file (required)")
	projectFolder := flags.StringP("project-folder", "f", ".", "folder the mapping JSON is written to")
	cacheDir := flags.String("cache-dir", cfg.CacheDir, "protein mass cache directory")
	baseURL := flags.String("base-url", cfg.BaseURL, "protein database API base URL")
	annotationKey := flags.String("annotation-key", cfg.AnnotationKey, "gene annotation holding the accession")
	delayMS := flags.Int("delay-ms", cfg.DelayMS, "pause between uncached lookups (0 disables)")
	verbose := flags.BoolP("verbose", "v", false, "print cache statistics after the run")

	return &Command{
		Flags: flags,
		Usage: "map -m <model.json> -n <name> [flags]",
		Short: "resolve protein masses and write the gene mass mapping",
		Long: "Group the model's genes by UniProt accession, resolve each accession\n" +
			"to its sequence mass (cache first, then the remote API), and write\n" +
			"{project-folder}/{name}_protein_id_mass_mapping.json.\n\n" +
			"Failed lookups are reported and skipped; the run still writes the\n" +
			"mapping for everything that resolved.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			opts := mapOptions{
				modelPath:     *modelPath,
				projectName:   *projectName,
				projectFolder: *projectFolder,
				cacheDir:      *cacheDir,
				baseURL:       *baseURL,
				annotationKey: *annotationKey,
				delayMS:       *delayMS,
				verbose:       *verbose,
			}

			return execMap(ctx, o, workDir, opts)
		},
	}
}

type mapOptions struct {
	modelPath     string
	projectName   string
	projectFolder string
	cacheDir      string
	baseURL       string
	annotationKey string
	delayMS       int
	verbose       bool
}

func execMap(ctx context.Context, o *IO, workDir string, opts mapOptions) error {
	if opts.modelPath == "" {
		return errModelRequired
	}

	if opts.projectName == "" {
		return errProjectNameRequired
	}

	if opts.cacheDir == "" {
		return errCacheDirEmpty
	}

	modelPath := absAgainst(workDir, opts.modelPath)
	projectFolder := absAgainst(workDir, opts.projectFolder)
	cacheDir := absAgainst(workDir, opts.cacheDir)

	cache, err := masscache.Open(cacheDir)
	if err != nil {
		return err
	}

	release, lockErr := cache.Lock()
	if lockErr != nil {
		return lockErr
	}

	defer release()

	// Negative delay disables the throttle entirely; zero at the
	// workflow level would select the default.
	delay := time.Duration(opts.delayMS) * time.Millisecond
	if delay <= 0 {
		delay = -1
	}

	runErr := protein.GenerateMassMappingFromFile(ctx, modelPath, protein.Options{
		ProjectFolder: projectFolder,
		ProjectName:   opts.projectName,
		AnnotationKey: opts.annotationKey,
		Cache:         cache,
		Lookup:        uniprot.NewClient(opts.baseURL),
		Delay:         delay,
		Progress:      o.Out(),
	})
	if runErr != nil {
		return runErr
	}

	if opts.verbose {
		keys, keysErr := cache.Keys()
		if keysErr != nil {
			return keysErr
		}

		o.Printf("cache %s holds %d entries\n", cache.Root(), len(keys))
	}

	return nil
}

func absAgainst(workDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(workDir, path)
}
