package export

import (
	"bytes"
	"fmt"

	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/xuri/excelize/v2"
)

const recommendationsSheet = "Recommendations"

// RecommendationsWorkbook renders the recommendation list as an xlsx
// workbook and returns its bytes for the download endpoint.
func RecommendationsWorkbook(recs []domain.Recommendation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(recommendationsSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	headers := []interface{}{
		"Category",
		"Current Safety Stock", "Proposed Safety Stock",
		"Current Reorder Point", "Proposed Reorder Point",
		"Current Holding Cost (VND)", "Proposed Holding Cost (VND)",
		"Potential Saving (VND)",
	}
	if err := f.SetSheetRow(recommendationsSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, rec := range recs {
		row := []interface{}{
			rec.Category,
			rec.CurrentSafetyStock, rec.ProposedSafetyStock,
			rec.CurrentReorderPoint, rec.ProposedReorderPoint,
			rec.CurrentHoldingCost, rec.ProposedHoldingCost,
			rec.PotentialSaving,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(recommendationsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
