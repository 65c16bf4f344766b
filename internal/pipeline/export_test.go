package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"lotsheet/internal"
)

// mkTemplate writes a minimal delivery template: label column, header
// cells at the conventional addresses, and A5:C5 merged so the B5 write
// has to be skipped.
func mkTemplate(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetCellValue(sheet, "A1", "MATERIAL DELIVERY RECEIPT")
	_ = f.SetCellValue(sheet, "A5", "Project:")
	_ = f.SetCellValue(sheet, "A6", "Location:")
	_ = f.SetCellValue(sheet, "A7", "Delivery date:")
	_ = f.SetCellValue(sheet, "D6", "Contact:")
	_ = f.SetCellValue(sheet, "D7", "Phone:")
	if err := f.MergeCell(sheet, "A5", "C5"); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func sampleMeta() internal.Metadata {
	return internal.Metadata{
		Project:      "Harbor Works",
		Location:     "12 Dock Rd",
		DeliveryDate: "2026-08-25",
		SiteContact:  "R. Alvarez",
		Phone:        "555-0101",
		Building:     "B1",
		Category:     "Electrical",
	}
}

func TestFillTemplate(t *testing.T) {
	tmp := t.TempDir()
	tpl := filepath.Join(tmp, "template.xlsx")
	out := filepath.Join(tmp, "filled.xlsx")
	mkTemplate(t, tpl)

	records := []internal.ExtractedRecord{
		{Description: "LOT OF TYPE A FIXTURES", Qty: "3"},
		{Description: "TYPE B CONDUIT", Qty: "007"},
	}
	if err := FillTemplate(tpl, out, records, sampleMeta()); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)

	// B5 is covered by the A5:C5 merge; the anchor label survives.
	if v, _ := f.GetCellValue(sheet, "A5"); v != "Project:" {
		t.Fatalf("A5=%q", v)
	}
	if v, _ := f.GetCellValue(sheet, "B6"); v != "12 Dock Rd" {
		t.Fatalf("B6=%q", v)
	}
	if v, _ := f.GetCellValue(sheet, "B7"); v != "2026-08-25" {
		t.Fatalf("B7=%q", v)
	}
	if v, _ := f.GetCellValue(sheet, "E6"); v != "R. Alvarez" {
		t.Fatalf("E6=%q", v)
	}
	if v, _ := f.GetCellValue(sheet, "E7"); v != "555-0101" {
		t.Fatalf("E7=%q", v)
	}

	// Rows appended after the last template row, qty kept as text.
	if v, _ := f.GetCellValue(sheet, "A8"); v != "LOT OF TYPE A FIXTURES" {
		t.Fatalf("A8=%q", v)
	}
	if v, _ := f.GetCellValue(sheet, "B9"); v != "007" {
		t.Fatalf("B9=%q", v)
	}
	if v, _ := f.GetCellValue(sheet, "C8"); v != "B1" {
		t.Fatalf("C8=%q", v)
	}
	if v, _ := f.GetCellValue(sheet, "D9"); v != "Electrical" {
		t.Fatalf("D9=%q", v)
	}
}

func TestFillTemplateMissingTemplate(t *testing.T) {
	tmp := t.TempDir()
	err := FillTemplate(filepath.Join(tmp, "absent.xlsx"), filepath.Join(tmp, "out.xlsx"), nil, sampleMeta())
	if err == nil {
		t.Fatal("expected error")
	}
}
