// Package masscache persists resolved protein masses, one file per
// accession under a fixed root directory.
//
// Entries are gob-encoded float64 values, written once on first
// successful resolution and never expired. The cache is a durable
// side-channel: it outlives the process and makes re-runs strictly
// cheaper.
package masscache

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
)

// Cache errors.
var (
	ErrNotFound = errors.New("no cache entry")
	ErrCorrupt  = errors.New("cache entry corrupted")
)

const dirPerms = 0o755

// Cache is an accession → mass store with one file per accession.
// Accessions are used verbatim as file names; UniProt accessions are
// filesystem-safe, so no encoding step is needed.
type Cache struct {
	root string
}

// Open ensures root exists and returns a cache over it.
func Open(root string) (*Cache, error) {
	if root == "" {
		return nil, errors.New("cache root is empty")
	}

	err := os.MkdirAll(root, dirPerms)
	if err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	return &Cache{root: root}, nil
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// Has reports whether an entry for accession is present.
func (c *Cache) Has(accession string) bool {
	info, err := os.Stat(c.entryPath(accession))

	return err == nil && !info.IsDir()
}

// Read returns the persisted mass for accession.
// Returns ErrNotFound if no entry exists and ErrCorrupt if the entry
// cannot be decoded.
func (c *Cache) Read(accession string) (float64, error) {
	file, err := os.Open(c.entryPath(accession)) //nolint:gosec // path is constructed from the cache root
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, accession)
		}

		return 0, fmt.Errorf("opening cache entry: %w", err)
	}

	defer func() { _ = file.Close() }()

	var mass float64

	decodeErr := gob.NewDecoder(file).Decode(&mass)
	if decodeErr != nil {
		return 0, fmt.Errorf("%w: %s", ErrCorrupt, accession)
	}

	return mass, nil
}

// Write persists mass for accession, overwriting any existing entry.
// The write is atomic, so a crashed run never leaves a torn entry.
func (c *Cache) Write(accession string, mass float64) error {
	var buf bytes.Buffer

	encodeErr := gob.NewEncoder(&buf).Encode(mass)
	if encodeErr != nil {
		return fmt.Errorf("encoding cache entry: %w", encodeErr)
	}

	writeErr := atomic.WriteFile(c.entryPath(accession), &buf)
	if writeErr != nil {
		return fmt.Errorf("writing cache entry: %w", writeErr)
	}

	return nil
}

// Keys lists the accessions currently cached, sorted.
func (c *Cache) Keys() ([]string, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return nil, fmt.Errorf("listing cache: %w", err)
	}

	keys := make([]string, 0, len(entries))

	for _, entry := range entries {
		// Dot files (the lock file) are not entries.
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		keys = append(keys, entry.Name())
	}

	sort.Strings(keys)

	return keys, nil
}

func (c *Cache) entryPath(accession string) string {
	return filepath.Join(c.root, accession)
}
