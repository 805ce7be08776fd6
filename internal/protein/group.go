// Package protein builds the gene → protein mass mapping for a
// metabolic model: it groups genes by their external accession,
// resolves each accession to a sequence mass through a durable cache
// and a remote lookup, and writes the expanded mapping as JSON.
package protein

import "protmass/internal/model"

// AccessionGroup maps each external accession to the local gene IDs
// that reference it, preserving the order accessions first appeared.
// Multiple genes may share one accession. Built once per run,
// immutable afterwards.
type AccessionGroup struct {
	order   []string
	members map[string][]string
}

// GroupByAccession buckets the model's genes by the accession stored
// under annotationKey. Genes without the annotation are skipped; they
// can never contribute to the output.
func GroupByAccession(genes []model.Gene, annotationKey string) *AccessionGroup {
	group := &AccessionGroup{members: make(map[string][]string)}

	for _, gene := range genes {
		accession, ok := gene.Accession(annotationKey)
		if !ok {
			continue
		}

		if _, seen := group.members[accession]; !seen {
			group.order = append(group.order, accession)
		}

		group.members[accession] = append(group.members[accession], gene.ID)
	}

	return group
}

// Accessions returns the accessions in first-appearance order.
func (g *AccessionGroup) Accessions() []string {
	return g.order
}

// LocalIDs returns the gene IDs grouped under accession.
func (g *AccessionGroup) LocalIDs(accession string) []string {
	return g.members[accession]
}

// Len returns the number of distinct accessions.
func (g *AccessionGroup) Len() int {
	return len(g.order)
}
