package protein

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// MappingSuffix is appended to the project name to form the output
// file name.
const MappingSuffix = "_protein_id_mass_mapping.json"

// AssembleMapping expands resolved accession masses back through
// group to the local gene IDs. Every gene sharing an accession gets
// that accession's mass. Accessions absent from masses contribute
// nothing; their gene IDs are omitted.
func AssembleMapping(group *AccessionGroup, masses map[string]float64) map[string]float64 {
	mapping := make(map[string]float64)

	for _, accession := range group.Accessions() {
		mass, ok := masses[accession]
		if !ok {
			continue
		}

		for _, id := range group.LocalIDs(accession) {
			mapping[id] = mass
		}
	}

	return mapping
}

// MappingPath forms the output path from the project folder and name.
func MappingPath(projectFolder, projectName string) string {
	return StandardizeFolder(projectFolder) + projectName + MappingSuffix
}

// StandardizeFolder ensures folder carries a trailing separator.
func StandardizeFolder(folder string) string {
	if folder == "" || strings.HasSuffix(folder, string(os.PathSeparator)) {
		return folder
	}

	return folder + string(os.PathSeparator)
}

// WriteMapping writes mapping as a flat JSON object at path,
// unconditionally replacing any existing file. Keys are sorted by the
// encoder, so the output is deterministic.
func WriteMapping(path string, mapping map[string]float64) error {
	data, err := json.MarshalIndent(mapping, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding mapping: %w", err)
	}

	data = append(data, '\n')

	writeErr := atomic.WriteFile(path, bytes.NewReader(data))
	if writeErr != nil {
		return fmt.Errorf("writing mapping: %w", writeErr)
	}

	return nil
}
