package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/plasmonlab/sprsweep/optics"
	"github.com/plasmonlab/sprsweep/resonance"
)

// RunInfo captures the configuration a workbook's Summary sheet reports
// alongside the records, so a saved run is reproducible from the file alone.
type RunInfo struct {
	Instrument string
	Wavelength float64
	Pol        optics.Polarization
	Grid       resonance.Grid
	Spec       resonance.SweepSpec
	Complete   bool // false when the run was canceled or failed mid-sweep
}

// SaveWorkbook writes an XLSX workbook with a Summary sheet (run
// configuration and completeness) and a Records sheet (one row per record,
// including the dip reflectance the CSV contract omits).
func SaveWorkbook(path string, info RunInfo, recs []resonance.Record) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	summary := "Summary"
	f.SetSheetName("Sheet1", summary)

	kv := [][2]any{
		{"Instrument", info.Instrument},
		{"Wavelength", info.Wavelength},
		{"Polarization", string(info.Pol)},
		{"Window min [deg]", info.Grid.MinDeg},
		{"Window max [deg]", info.Grid.MaxDeg},
		{"Window samples", info.Grid.Samples},
		{"Swept layer", info.Spec.Layer},
		{"Sweep min", info.Spec.Min},
		{"Sweep max", info.Spec.Max},
		{"Sweep samples", info.Spec.Samples},
		{"Records", len(recs)},
		{"Complete", info.Complete},
	}
	for i, pair := range kv {
		rowIdx := i + 1
		if err := f.SetCellValue(summary, fmt.Sprintf("A%d", rowIdx), pair[0]); err != nil {
			return fmt.Errorf("report: workbook summary: %w", err)
		}
		if err := f.SetCellValue(summary, fmt.Sprintf("B%d", rowIdx), pair[1]); err != nil {
			return fmt.Errorf("report: workbook summary: %w", err)
		}
	}

	records := "Records"
	if _, err := f.NewSheet(records); err != nil {
		return fmt.Errorf("report: workbook records sheet: %w", err)
	}

	headers := []string{"No", "n", "angle [deg]", "R at dip"}
	for c, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(records, cell, h); err != nil {
			return fmt.Errorf("report: workbook header: %w", err)
		}
	}
	for i, r := range recs {
		vals := []any{i + 1, r.Value, r.AngleDeg, r.Reflectance}
		for c, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(c+1, i+2)
			if err := f.SetCellValue(records, cell, v); err != nil {
				return fmt.Errorf("report: workbook row %d: %w", i+1, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report: save workbook: %w", err)
	}

	return nil
}
