package parser

import (
	"fmt"
	"strings"

	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
)

// XlsxExtractor extracts one section per worksheet, rows tab-joined.
type XlsxExtractor struct{}

func (e *XlsxExtractor) Extract(path string) ([]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("read xlsx %s: %w", path, err)
	}

	var sections []string
	for _, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				cells = append(cells, cell.String())
			}
			text.WriteString(strings.Join(cells, "\t"))
			text.WriteString("\n")
		}
		sections = append(sections, splitOversize(text.String(), maxSectionChars, sectionOverlapChars)...)
	}
	return sections, nil
}

// OdsExtractor extracts one section per OpenDocument spreadsheet.
type OdsExtractor struct{}

func (e *OdsExtractor) Extract(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ods %s: %w", path, err)
	}
	defer f.Close()

	var sections []string
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			text.WriteString(strings.Join(row, "\t"))
			text.WriteString("\n")
		}
		sections = append(sections, splitOversize(text.String(), maxSectionChars, sectionOverlapChars)...)
	}
	return sections, nil
}
