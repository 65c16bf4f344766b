package storage

import (
	"path/filepath"
	"testing"

	"lotsheet/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestExtractionRowsRoundTrip(t *testing.T) {
	db := openTestDB(t)

	m, err := db.UpsertManifest(nil, internal.SourceLocalFile, "m.txt", "hash-1", "/data/m.txt", "2026-08-25T00:00:00Z")
	if err != nil {
		t.Fatal(err)
	}

	// Insert out of order; listing comes back by line number.
	if err := db.InsertExtraction(m.ID, 2, internal.ExtractedRecord{Description: "TYPE B CONDUIT", Qty: "2"}); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertExtraction(m.ID, 1, internal.ExtractedRecord{Description: "LOT TYPE A", Qty: "3"}); err != nil {
		t.Fatal(err)
	}

	rows, err := db.ListExtractions(m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("len=%d", len(rows))
	}
	if rows[0].LineNo != 1 || rows[0].Description != "LOT TYPE A" || rows[0].Qty != "3" {
		t.Fatalf("rows[0]=%+v", rows[0])
	}
	if rows[1].ManifestID != m.ID || rows[1].LineNo != 2 || rows[1].Qty != "2" {
		t.Fatalf("rows[1]=%+v", rows[1])
	}

	if err := db.ClearExtractions(m.ID); err != nil {
		t.Fatal(err)
	}
	rows, err = db.ListExtractions(m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("len=%d after clear", len(rows))
	}
}

func TestPresetRoundTrip(t *testing.T) {
	db := openTestDB(t)

	p := internal.Preset{
		Building:    "B1",
		Category:    "Electrical",
		Project:     "Harbor Works",
		Location:    "12 Dock Rd",
		SiteContact: "R. Alvarez",
		Phone:       "555-0101",
	}
	if err := db.PutPreset(p); err != nil {
		t.Fatal(err)
	}

	p.Phone = "555-0199"
	if err := db.PutPreset(p); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetPreset("B1", "Electrical")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Phone != "555-0199" {
		t.Fatalf("got=%+v", got)
	}

	missing, err := db.GetPreset("B2", "Electrical")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatalf("missing=%+v", missing)
	}
}
