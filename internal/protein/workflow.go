package protein

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"protmass/internal/masscache"
	"protmass/internal/model"
)

// Workflow errors.
var (
	errNoCache  = errors.New("options: Cache is required")
	errNoLookup = errors.New("options: Lookup is required")
)

// Options configures a mass mapping run.
type Options struct {
	// ProjectFolder is the directory the mapping JSON is written to.
	ProjectFolder string

	// ProjectName prefixes the mapping file name.
	ProjectName string

	// AnnotationKey selects the gene annotation holding the external
	// accession. Empty selects model.DefaultAnnotationKey.
	AnnotationKey string

	// Cache is the durable accession → mass store. Required.
	Cache *masscache.Cache

	// Lookup is the remote mass service. Required.
	Lookup MassLookup

	// Delay spaces consecutive uncached lookups. Zero selects
	// DefaultDelay; negative disables the throttle.
	Delay time.Duration

	// Progress receives one textual line per accession attempted.
	// Nil discards progress output.
	Progress io.Writer
}

// GenerateMassMapping resolves the model's accessions and writes the
// gene → mass mapping JSON to
// {ProjectFolder}/{ProjectName}_protein_id_mass_mapping.json.
//
// The run is best-effort per accession: failed lookups are reported
// on Progress and their genes omitted from the mapping, but the run
// still succeeds and writes the (possibly incomplete) file. Only
// environment failures and context cancellation return an error.
// Re-running after an interrupted run is safe and strictly cheaper.
func GenerateMassMapping(ctx context.Context, m *model.Model, opts Options) error {
	if opts.Cache == nil {
		return errNoCache
	}

	if opts.Lookup == nil {
		return errNoLookup
	}

	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}

	key := opts.AnnotationKey
	if key == "" {
		key = model.DefaultAnnotationKey
	}

	delay := opts.Delay
	if delay == 0 {
		delay = DefaultDelay
	}

	group := GroupByAccession(m.Genes, key)

	fmt.Fprintf(progress, "resolving %d accessions for model %s\n", group.Len(), m.ID)

	resolver := NewResolver(opts.Cache, opts.Lookup, delay)

	masses, _, err := resolver.Resolve(ctx, group, func(o Outcome) {
		switch {
		case o.Err != nil:
			fmt.Fprintf(progress, "%s: lookup failed: %v\n", o.Accession, o.Err)
		case o.FromCache:
			fmt.Fprintf(progress, "%s: %g (cached)\n", o.Accession, o.Mass)
		default:
			fmt.Fprintf(progress, "%s: %g\n", o.Accession, o.Mass)
		}
	})
	if err != nil {
		return err
	}

	for _, accession := range group.Accessions() {
		if _, ok := masses[accession]; !ok {
			fmt.Fprintf(progress, "no mass found for %s\n", accession)
		}
	}

	mapping := AssembleMapping(group, masses)

	path := MappingPath(opts.ProjectFolder, opts.ProjectName)

	writeErr := WriteMapping(path, mapping)
	if writeErr != nil {
		return writeErr
	}

	fmt.Fprintf(progress, "mass mapping written to %s (%d of %d genes)\n", path, len(mapping), len(m.Genes))

	return nil
}

// GenerateMassMappingFromFile is GenerateMassMapping for a model
// still on disk: it loads the JSON model at modelPath first.
func GenerateMassMappingFromFile(ctx context.Context, modelPath string, opts Options) error {
	m, err := model.Load(modelPath)
	if err != nil {
		return err
	}

	return GenerateMassMapping(ctx, m, opts)
}
