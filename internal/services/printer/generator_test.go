package printer

import (
	"bytes"
	"testing"

	"github.com/shelfmap/shelfmapgo/internal/models"
)

func TestGenerateShelfLabelsPDF(t *testing.T) {
	shelves := []models.Shelf{
		{ID: "shelf-1", Name: "Shelf A"},
		{ID: "shelf-2", Name: "Shelf B"},
	}

	pdf, err := GenerateShelfLabelsPDF("Main Warehouse", shelves, DefaultLabelConfig())
	if err != nil {
		t.Fatalf("GenerateShelfLabelsPDF failed: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("Empty PDF output")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("Output does not start with a PDF header: %q", pdf[:8])
	}
}

func TestGenerateShelfLabelsPDFNoShelves(t *testing.T) {
	if _, err := GenerateShelfLabelsPDF("Main Warehouse", nil, DefaultLabelConfig()); err == nil {
		t.Error("Empty shelf list should fail")
	}
}

func TestGenerateShelfLabelsPDFBadConfigFallsBack(t *testing.T) {
	shelves := []models.Shelf{{ID: "shelf-1", Name: "Shelf A"}}
	pdf, err := GenerateShelfLabelsPDF("W", shelves, LabelConfig{})
	if err != nil {
		t.Fatalf("Zero config should fall back to defaults: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("Empty PDF output")
	}
}
