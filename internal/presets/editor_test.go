package presets

import (
	"strings"
	"testing"

	"lotsheet/internal"
)

type memStore struct {
	byKey map[string]internal.Preset
}

func newMemStore() *memStore {
	return &memStore{byKey: map[string]internal.Preset{}}
}

func key(building, category string) string { return building + "\x00" + category }

func (s *memStore) GetPreset(building, category string) (*internal.Preset, error) {
	p, ok := s.byKey[key(building, category)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memStore) PutPreset(p internal.Preset) error {
	s.byKey[key(p.Building, p.Category)] = p
	return nil
}

func (s *memStore) DeletePreset(building, category string) error {
	delete(s.byKey, key(building, category))
	return nil
}

func (s *memStore) ListPresets() ([]internal.Preset, error) {
	out := make([]internal.Preset, 0, len(s.byKey))
	for _, p := range s.byKey {
		out = append(out, p)
	}
	return out, nil
}

func samplePreset() internal.Preset {
	return internal.Preset{
		Building:    "B1",
		Category:    "Electrical",
		Project:     "Harbor Works",
		Location:    "12 Dock Rd",
		SiteContact: "R. Alvarez",
		Phone:       "555-0101",
	}
}

func TestEditorCommit(t *testing.T) {
	store := newMemStore()
	ed := NewEditor(store, samplePreset())

	if err := ed.BeginEdit(); err != nil {
		t.Fatal(err)
	}
	draft, err := ed.Draft()
	if err != nil {
		t.Fatal(err)
	}
	draft.Phone = "555-0199"
	if err := ed.Commit(); err != nil {
		t.Fatal(err)
	}

	if ed.State() != StateViewing {
		t.Fatalf("state=%s", ed.State())
	}
	stored, _ := store.GetPreset("B1", "Electrical")
	if stored == nil || stored.Phone != "555-0199" {
		t.Fatalf("stored=%+v", stored)
	}
}

func TestEditorCancelDiscardsDraft(t *testing.T) {
	store := newMemStore()
	ed := NewEditor(store, samplePreset())

	if err := ed.BeginEdit(); err != nil {
		t.Fatal(err)
	}
	draft, _ := ed.Draft()
	draft.Project = "changed"
	if err := ed.Cancel(); err != nil {
		t.Fatal(err)
	}

	if ed.Current().Project != "Harbor Works" {
		t.Fatalf("current=%+v", ed.Current())
	}
	if len(store.byKey) != 0 {
		t.Fatal("cancel must not persist")
	}
}

func TestEditorCommandsGuardedByState(t *testing.T) {
	ed := NewEditor(newMemStore(), samplePreset())

	if err := ed.Commit(); err == nil {
		t.Fatal("commit outside editing must fail")
	}
	if _, err := ed.Draft(); err == nil {
		t.Fatal("draft outside editing must fail")
	}
	if err := ed.BeginEdit(); err != nil {
		t.Fatal(err)
	}
	if err := ed.BeginEdit(); err == nil {
		t.Fatal("double begin must fail")
	}
	if err := ed.Delete(); err == nil {
		t.Fatal("delete while editing must fail")
	}
}

func TestEditorCommitValidates(t *testing.T) {
	ed := NewEditor(newMemStore(), samplePreset())
	_ = ed.BeginEdit()
	draft, _ := ed.Draft()
	draft.Phone = "  "
	err := ed.Commit()
	if err == nil || !strings.Contains(err.Error(), "phone") {
		t.Fatalf("err=%v", err)
	}
	if ed.State() != StateEditing {
		t.Fatal("failed commit must stay in editing")
	}
}

func TestResolve(t *testing.T) {
	store := newMemStore()
	_ = store.PutPreset(samplePreset())

	meta, err := Resolve(store, "B1", "Electrical", "2026-08-25")
	if err != nil {
		t.Fatal(err)
	}
	if meta.Project != "Harbor Works" || meta.DeliveryDate != "2026-08-25" || meta.Building != "B1" {
		t.Fatalf("meta=%+v", meta)
	}

	if _, err := Resolve(store, "B9", "Electrical", "2026-08-25"); err == nil {
		t.Fatal("missing preset must error")
	}
}
