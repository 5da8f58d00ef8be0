package export

import (
	"io"
	"strconv"

	"github.com/360EntSecGroup-Skylar/excelize"

	"github.com/crmdesk/crmdesk/internal/domain"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	SheetName       = "Customers"
)

var columnWidths = []float64{22, 24, 32, 18, 24, 20}

// WriteXLSX writes a single sheet workbook with the same columns as the CSV export
func WriteXLSX(w io.Writer, customers []*domain.Customer) error {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", SheetName)

	headerStyle, err := f.NewStyle(`{"font":{"bold":true},"fill":{"type":"pattern","color":["#E8E8E8"],"pattern":1}}`)
	if err != nil {
		return err
	}

	for i, col := range Columns {
		name := excelize.ToAlphaString(i)
		f.SetCellValue(SheetName, name+"1", col)
		f.SetColWidth(SheetName, name, name, columnWidths[i])
	}
	f.SetCellStyle(SheetName, "A1", excelize.ToAlphaString(len(Columns)-1)+"1", headerStyle)

	for r, row := range Rows(customers) {
		for i, value := range row.Values() {
			f.SetCellValue(SheetName, cellName(i, r+2), value)
		}
	}
	return f.Write(w)
}

func cellName(col, row int) string {
	return excelize.ToAlphaString(col) + strconv.Itoa(row)
}
