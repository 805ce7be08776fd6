// Package model loads gene records from a metabolic model file.
//
// Only the subset of the model this tool consumes is decoded: the
// model ID and its genes with their annotations. Full SBML parsing is
// out of scope; the JSON serialization of the same models is the
// supported on-disk form.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DefaultAnnotationKey is the annotation under which models carry
// UniProt accessions.
const DefaultAnnotationKey = "uniprot"

var errModelInvalid = errors.New("invalid model file")

// Gene is a single gene record from the model.
type Gene struct {
	ID         string
	Annotation map[string]string
}

// Accession returns the external accession stored under key.
// The second return is false when the gene carries no such
// annotation; such genes can never contribute to a mass mapping.
func (g Gene) Accession(key string) (string, bool) {
	accession, ok := g.Annotation[key]
	if !ok || accession == "" {
		return "", false
	}

	return accession, true
}

// Model is the subset of a metabolic model this tool consumes.
type Model struct {
	ID    string
	Genes []Gene
}

// geneJSON mirrors the on-disk gene shape. Annotation values may be a
// plain string or a list of strings depending on the producing tool.
type geneJSON struct {
	ID         string         `json:"id"`
	Annotation map[string]any `json:"annotation"`
}

type modelJSON struct {
	ID    string     `json:"id"`
	Genes []geneJSON `json:"genes"`
}

// Load reads a COBRA-style JSON model from path.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}

	var raw modelJSON

	unmarshalErr := json.Unmarshal(data, &raw)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("%w %s: %w", errModelInvalid, path, unmarshalErr)
	}

	m := &Model{ID: raw.ID, Genes: make([]Gene, 0, len(raw.Genes))}

	for _, g := range raw.Genes {
		m.Genes = append(m.Genes, Gene{
			ID:         g.ID,
			Annotation: normalizeAnnotation(g.Annotation),
		})
	}

	return m, nil
}

// normalizeAnnotation flattens annotation values to single strings.
// List values keep their first string element, matching how model
// ecosystems read single-valued annotations.
func normalizeAnnotation(raw map[string]any) map[string]string {
	if len(raw) == 0 {
		return nil
	}

	annotation := make(map[string]string, len(raw))

	for key, value := range raw {
		switch v := value.(type) {
		case string:
			annotation[key] = v
		case []any:
			if len(v) == 0 {
				continue
			}

			if s, ok := v[0].(string); ok {
				annotation[key] = s
			}
		}
	}

	return annotation
}
