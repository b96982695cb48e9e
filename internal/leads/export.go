package leads

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX renders the whole mailing list as an Excel workbook.
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildXLSX(rows)
}

// BuildXLSX turns lead rows into workbook bytes. Split out from the DB read
// so the sheet layout is testable on its own.
func BuildXLSX(rows []Lead) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Leads"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"prenom", "email", "metier", "date_inscription"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, l := range rows {
		values := []any{l.Name, l.Email, l.Profession, l.CreatedAt.Format("2006-01-02 15:04:05")}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
