package blueprint_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	blueprint "github.com/Hank-IT/blueprint-core"
)

func TestBuildPayload_FieldGetterOmitsAndReplaces(t *testing.T) {
	f := blueprint.NewForm(blueprint.State{
		"name":  "",
		"email": nil,
	},
		blueprint.WithFieldGetter("name", func(v any, _ blueprint.State) any {
			s, _ := v.(string)
			if strings.TrimSpace(s) == "" {
				return blueprint.Omit
			}
			return strings.TrimSpace(s)
		}),
	)

	_ = f.Set("/name", "  ")
	got := f.BuildPayload()
	want := map[string]any{"email": nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("blank name must be omitted while null email survives (-want +got):\n%s", diff)
	}

	_ = f.Set("/name", "Alice")
	got = f.BuildPayload()
	want = map[string]any{"name": "Alice", "email": nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPayload_FieldGetterIsTerminal(t *testing.T) {
	f := blueprint.NewForm(blueprint.State{
		"address": blueprint.State{"city": "Berlin"},
	},
		blueprint.WithFieldGetter("address", func(v any, _ blueprint.State) any {
			return map[string]any{"kept": true}
		}),
		// a child getter that must never run: field getters own the shape
		blueprint.WithChildGetter("address", "kept", func(v any, _ blueprint.State) any {
			return blueprint.Omit
		}),
	)

	got := f.BuildPayload()
	want := map[string]any{"address": map[string]any{"kept": true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("field getter result must not be walked (-want +got):\n%s", diff)
	}
}

func TestBuildPayload_ChildGetterAppliesPerElement(t *testing.T) {
	f := blueprint.NewForm(blueprint.State{
		"positions": blueprint.NewTrackedArray(
			blueprint.State{"value": "keep", "internal": "a"},
			blueprint.State{"value": "drop", "internal": "b"},
		),
	},
		blueprint.WithChildGetter("positions", "internal", func(v any, _ blueprint.State) any {
			return blueprint.Omit
		}),
		blueprint.WithChildGetter("positions", "value", func(v any, _ blueprint.State) any {
			return strings.ToUpper(v.(string))
		}),
	)

	got := f.BuildPayload()
	want := map[string]any{
		"positions": []any{
			map[string]any{"value": "KEEP"},
			map[string]any{"value": "DROP"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("composite getters must apply to every element (-want +got):\n%s", diff)
	}
}

func TestBuildPayload_AppendedAndIgnoredFields(t *testing.T) {
	f := blueprint.NewForm(blueprint.State{
		"name":     "Alice",
		"internal": "hidden",
	},
		blueprint.WithIgnored("internal"),
		blueprint.WithAppended("fullName", func(s blueprint.State) any {
			return s["name"].(string) + " Smith"
		}),
		blueprint.WithAppended("skipped", func(s blueprint.State) any {
			return blueprint.Omit
		}),
	)

	got := f.BuildPayload()
	want := map[string]any{"name": "Alice", "fullName": "Alice Smith"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("appended/ignored handling mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPayload_AtomicValuesPassThrough(t *testing.T) {
	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	blob := blueprint.NewBlob("cv.pdf", "application/pdf", []byte{1, 2, 3})
	f := blueprint.NewForm(blueprint.State{
		"since":      when,
		"attachment": blob,
	})

	got := f.BuildPayload()
	if !got["since"].(time.Time).Equal(when) {
		t.Fatalf("dates must be copied by value, got %v", got["since"])
	}
	if got["attachment"] != blob {
		t.Fatalf("blobs must be carried by reference")
	}
}

func TestBuildPayload_TrackedArraysFlattenToPlainSlices(t *testing.T) {
	f := blueprint.NewForm(blueprint.State{
		"tags": blueprint.NewTrackedArray("a", "b"),
	})

	got := f.BuildPayload()
	want := map[string]any{"tags": []any{"a", "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tracked arrays must leave the payload as plain slices (-want +got):\n%s", diff)
	}
}
