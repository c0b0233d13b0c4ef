package export

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName = "Products"
	linkLabel = "View Product"
)

var columns = []string{"Product Name", "Price", "Site", "Link"}

// ExcelExporter writes product batches to xlsx workbooks with clickable
// listing links.
type ExcelExporter struct {
	filenamePrefix string
}

// NewExcelExporter creates an exporter. The prefix is appended to generated
// filenames when the caller does not name the output file.
func NewExcelExporter(prefix string) *ExcelExporter {
	if prefix == "" {
		prefix = "price_comparison"
	}
	return &ExcelExporter{filenamePrefix: prefix}
}

// Export writes one row per product to an xlsx file and returns its path.
// An empty batch is refused; a zero-row artifact must never be written.
// If the destination cannot be written (locked or otherwise), the export is
// retried once under an alternate name before failing.
func (e *ExcelExporter) Export(products []domain.Product, query, outputFile string) (string, error) {
	if len(products) == 0 {
		return "", domain.ErrNoExportData
	}

	if outputFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputFile = fmt.Sprintf("%s_%s_%s.xlsx",
			strings.ReplaceAll(query, " ", "_"), timestamp, e.filenamePrefix)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", fmt.Errorf("failed to set up worksheet: %w", err)
	}

	for col, header := range columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, p := range products {
		row := i + 2 // header occupies row 1
		values := []string{p.Name, p.Price, p.Site}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return "", fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}

		linkCell, _ := excelize.CoordinatesToCellName(len(columns), row)
		formula := fmt.Sprintf("HYPERLINK(%q,%q)", p.URL, linkLabel)
		if err := f.SetCellFormula(sheetName, linkCell, formula); err != nil {
			return "", fmt.Errorf("failed to write link for row %d: %w", row, err)
		}
	}

	e.sizeColumns(f, products)

	savedPath, err := e.saveWithRetry(f, outputFile)
	if err != nil {
		return "", err
	}

	log.Printf("[Export] saved %d products to %s", len(products), savedPath)
	return savedPath, nil
}

// sizeColumns widens each column to fit its longest value.
func (e *ExcelExporter) sizeColumns(f *excelize.File, products []domain.Product) {
	widths := make([]int, len(columns))
	for i, header := range columns {
		widths[i] = len(header)
	}
	for _, p := range products {
		for i, v := range []string{p.Name, p.Price, p.Site, linkLabel} {
			if len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
	}
	for i, w := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, name, name, float64(w+2))
	}
}

// saveWithRetry saves the workbook, falling back once to an alternate
// filename if the destination is locked or unwritable. Only filesystem
// failures at the destination path qualify; anything else (bad workbook
// format, oversized path) would fail identically under any name.
func (e *ExcelExporter) saveWithRetry(f *excelize.File, outputFile string) (string, error) {
	err := f.SaveAs(outputFile)
	if err == nil {
		return outputFile, nil
	}

	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	ext := filepath.Ext(outputFile)
	alternate := strings.TrimSuffix(outputFile, ext) + "_new" + ext
	log.Printf("[Export] WARN could not write %s (%v), retrying as %s", outputFile, err, alternate)

	if retryErr := f.SaveAs(alternate); retryErr != nil {
		return "", fmt.Errorf("failed to save workbook: %w", retryErr)
	}
	return alternate, nil
}
