package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeModel(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "model.json")

	err := os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatalf("writing model: %v", err)
	}

	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeModel(t, `{
		"id": "e_coli_core",
		"genes": [
			{"id": "b0001", "annotation": {"uniprot": "P0AD86"}},
			{"id": "b0002", "annotation": {"uniprot": ["P00561", "P00562"], "ncbigene": "945803"}},
			{"id": "b0003"}
		]
	}`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := &Model{
		ID: "e_coli_core",
		Genes: []Gene{
			{ID: "b0001", Annotation: map[string]string{"uniprot": "P0AD86"}},
			{ID: "b0002", Annotation: map[string]string{"uniprot": "P00561", "ncbigene": "945803"}},
			{ID: "b0003"},
		},
	}

	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMalformed(t *testing.T) {
	t.Parallel()

	path := writeModel(t, `{"genes": [`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for malformed model")
	}
}

func TestAccession(t *testing.T) {
	t.Parallel()

	gene := Gene{ID: "g1", Annotation: map[string]string{"uniprot": "P1"}}

	accession, ok := gene.Accession("uniprot")
	if !ok || accession != "P1" {
		t.Errorf("expected P1, got %q (ok=%v)", accession, ok)
	}

	if _, ok := gene.Accession("kegg"); ok {
		t.Error("unexpected accession under kegg")
	}

	bare := Gene{ID: "g2"}
	if _, ok := bare.Accession("uniprot"); ok {
		t.Error("unexpected accession on unannotated gene")
	}
}

func TestAccessionEmptyValue(t *testing.T) {
	t.Parallel()

	gene := Gene{ID: "g1", Annotation: map[string]string{"uniprot": ""}}

	if _, ok := gene.Accession("uniprot"); ok {
		t.Error("empty annotation value should count as absent")
	}
}
