package protein

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"protmass/internal/model"
)

func testModel() *model.Model {
	return &model.Model{
		ID: "test_model",
		Genes: []model.Gene{
			{ID: "g1", Annotation: map[string]string{"uniprot": "P1"}},
			{ID: "g2", Annotation: map[string]string{"uniprot": "P2"}},
			{ID: "g3"},
		},
	}
}

func readMapping(t *testing.T, path string) map[string]float64 {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading mapping: %v", err)
	}

	var mapping map[string]float64
	if unmarshalErr := json.Unmarshal(data, &mapping); unmarshalErr != nil {
		t.Fatalf("mapping is not valid JSON: %v", unmarshalErr)
	}

	return mapping
}

func TestGenerateMassMappingEndToEnd(t *testing.T) {
	t.Parallel()

	folder := t.TempDir()
	cache := newTestCache(t)

	// P1 resolves, P2 fails: the run must still succeed and write a
	// mapping holding g1 only.
	lookup := &fakeLookup{masses: map[string]float64{"P1": 10.5}}

	var progress bytes.Buffer

	err := GenerateMassMapping(context.Background(), testModel(), Options{
		ProjectFolder: folder,
		ProjectName:   "ecoli",
		Cache:         cache,
		Lookup:        lookup,
		Delay:         -1,
		Progress:      &progress,
	})
	if err != nil {
		t.Fatalf("GenerateMassMapping failed: %v", err)
	}

	path := filepath.Join(folder, "ecoli_protein_id_mass_mapping.json")

	got := readMapping(t, path)
	if diff := cmp.Diff(map[string]float64{"g1": 10.5}, got); diff != "" {
		t.Errorf("mapping mismatch (-want +got):\n%s", diff)
	}

	out := progress.String()
	if !strings.Contains(out, "no mass found for P2") {
		t.Errorf("progress should report the unresolved accession, got:\n%s", out)
	}

	if strings.Contains(out, "g3") {
		t.Errorf("unannotated gene must not surface in progress, got:\n%s", out)
	}
}

func TestGenerateMassMappingIdempotent(t *testing.T) {
	t.Parallel()

	folder := t.TempDir()
	cache := newTestCache(t)
	lookup := &fakeLookup{masses: map[string]float64{"P1": 10.5, "P2": 20.5}}

	opts := Options{
		ProjectFolder: folder,
		ProjectName:   "ecoli",
		Cache:         cache,
		Lookup:        lookup,
		Delay:         -1,
	}

	m := testModel()

	if err := GenerateMassMapping(context.Background(), m, opts); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	path := filepath.Join(folder, "ecoli_protein_id_mass_mapping.json")
	firstMapping := readMapping(t, path)

	firstKeys, err := cache.Keys()
	if err != nil {
		t.Fatalf("listing cache: %v", err)
	}

	callsAfterFirst := len(lookup.calls)

	if err := GenerateMassMapping(context.Background(), m, opts); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	// The second run is served entirely from cache.
	if len(lookup.calls) != callsAfterFirst {
		t.Errorf("second run issued %d extra remote calls", len(lookup.calls)-callsAfterFirst)
	}

	secondMapping := readMapping(t, path)
	if diff := cmp.Diff(firstMapping, secondMapping); diff != "" {
		t.Errorf("mapping changed between runs (-first +second):\n%s", diff)
	}

	secondKeys, keysErr := cache.Keys()
	if keysErr != nil {
		t.Fatalf("listing cache: %v", keysErr)
	}

	if diff := cmp.Diff(firstKeys, secondKeys); diff != "" {
		t.Errorf("cache changed between runs (-first +second):\n%s", diff)
	}
}

func TestGenerateMassMappingFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.json")

	modelJSON := `{
		"id": "test_model",
		"genes": [
			{"id": "g1", "annotation": {"uniprot": "P1"}},
			{"id": "g2", "annotation": {"uniprot": "P1"}}
		]
	}`

	if err := os.WriteFile(modelPath, []byte(modelJSON), 0o644); err != nil {
		t.Fatalf("writing model: %v", err)
	}

	cache := newTestCache(t)
	lookup := &fakeLookup{masses: map[string]float64{"P1": 55.2}}

	err := GenerateMassMappingFromFile(context.Background(), modelPath, Options{
		ProjectFolder: dir,
		ProjectName:   "test",
		Cache:         cache,
		Lookup:        lookup,
		Delay:         -1,
	})
	if err != nil {
		t.Fatalf("GenerateMassMappingFromFile failed: %v", err)
	}

	got := readMapping(t, filepath.Join(dir, "test_protein_id_mass_mapping.json"))

	// Both genes alias one accession and share its mass.
	want := map[string]float64{"g1": 55.2, "g2": 55.2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mapping mismatch (-want +got):\n%s", diff)
	}

	// One accession, one remote call.
	if len(lookup.calls) != 1 {
		t.Errorf("expected 1 remote call, got %v", lookup.calls)
	}
}

func TestGenerateMassMappingFromFileMissingModel(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t)

	err := GenerateMassMappingFromFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"), Options{
		ProjectFolder: t.TempDir(),
		ProjectName:   "test",
		Cache:         cache,
		Lookup:        &fakeLookup{},
		Delay:         -1,
	})
	if err == nil {
		t.Fatal("expected error for missing model file")
	}
}

func TestGenerateMassMappingRequiresCollaborators(t *testing.T) {
	t.Parallel()

	err := GenerateMassMapping(context.Background(), testModel(), Options{})
	if err == nil {
		t.Fatal("expected error without cache")
	}

	err = GenerateMassMapping(context.Background(), testModel(), Options{Cache: newTestCache(t)})
	if err == nil {
		t.Fatal("expected error without lookup")
	}
}

func TestGenerateMassMappingAllFailedStillWrites(t *testing.T) {
	t.Parallel()

	folder := t.TempDir()
	cache := newTestCache(t)

	err := GenerateMassMapping(context.Background(), testModel(), Options{
		ProjectFolder: folder,
		ProjectName:   "ecoli",
		Cache:         cache,
		Lookup:        &fakeLookup{},
		Delay:         -1,
	})
	if err != nil {
		t.Fatalf("run must succeed even when every lookup fails: %v", err)
	}

	got := readMapping(t, filepath.Join(folder, "ecoli_protein_id_mass_mapping.json"))
	if len(got) != 0 {
		t.Errorf("expected empty mapping, got %v", got)
	}
}
