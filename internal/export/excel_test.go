package export

import (
	"bytes"
	"testing"

	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/xuri/excelize/v2"
)

func TestRecommendationsWorkbook(t *testing.T) {
	recs := []domain.Recommendation{
		{
			Category:             "toys",
			CurrentSafetyStock:   100,
			ProposedSafetyStock:  80,
			CurrentReorderPoint:  1000,
			ProposedReorderPoint: 900,
			CurrentHoldingCost:   90000000,
			ProposedHoldingCost:  72000000,
			PotentialSaving:      18000000,
		},
		{Category: "books", CurrentSafetyStock: 50, ProposedSafetyStock: 40},
	}

	data, err := RecommendationsWorkbook(recs)
	if err != nil {
		t.Fatalf("RecommendationsWorkbook failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty workbook")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook is not readable xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(recommendationsSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Category" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "toys" || rows[2][0] != "books" {
		t.Errorf("row order = %q, %q", rows[1][0], rows[2][0])
	}
}

func TestRecommendationsWorkbookEmpty(t *testing.T) {
	data, err := RecommendationsWorkbook(nil)
	if err != nil {
		t.Fatalf("RecommendationsWorkbook failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook is not readable xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(recommendationsSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected only the header row, got %d", len(rows))
	}
}
