package utils

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"lostfound/internal/models"
)

const sheetName = "Items"

// CreateItemsExcel writes the report feed to an XLSX workbook.
func CreateItemsExcel(path string, items []models.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{"ID", "Type", "Item Name", "Location", "Date", "Time",
		"Contact Info", "Unique Identifiers", "Image URL", "Status",
		"Latitude", "Longitude", "Created At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
	})
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle)

	for rowIdx, item := range items {
		rowNum := rowIdx + 2 // header occupies row 1

		values := []interface{}{
			item.ID,
			item.Type,
			item.ItemName,
			item.Location,
			item.DateFoundLost,
			item.TimeFoundLost,
			item.ContactInfo,
			item.UniqueIdentifiers,
			item.ImageURL,
			item.Status,
			coordValue(item.Latitude),
			coordValue(item.Longitude),
			item.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowNum)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := 1; i <= len(headers); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	createInfoSheet(f, len(items))

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(path)
}

func coordValue(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func createInfoSheet(f *excelize.File, count int) {
	const info = "Info"
	if _, err := f.NewSheet(info); err != nil {
		return
	}

	f.SetCellValue(info, "A1", "Lost & Found feed export")
	f.SetCellValue(info, "A2", fmt.Sprintf("Generated at: %s", time.Now().UTC().Format(time.RFC3339)))
	f.SetCellValue(info, "A3", fmt.Sprintf("Items: %d", count))
	f.SetColWidth(info, "A", "A", 50)
}
