// Package export renders bookings and orders as Excel workbooks for
// vendor-side reporting.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/SohithNarnavaram/BeautyHub/internal/models"
)

// Report builds an Excel workbook incrementally, one sheet at a time.
type Report struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

// NewReport creates an empty workbook.
func NewReport() *Report {
	return &Report{file: excelize.NewFile()}
}

// AddSheet starts a new sheet with the given name.
func (r *Report) AddSheet(name string) error {
	// Excel caps sheet names at 31 chars.
	if len(name) > 31 {
		name = name[:31]
	}

	if r.currentSheet == "" {
		r.file.SetSheetName("Sheet1", name)
	} else {
		if _, err := r.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	r.currentSheet = name
	r.currentRow = 1
	return nil
}

// WriteHeader writes a bold header row on the current sheet.
func (r *Report) WriteHeader(columns []string) error {
	if r.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, r.currentRow)
		if err != nil {
			return err
		}
		if err := r.file.SetCellValue(r.currentSheet, cell, col); err != nil {
			return err
		}
	}

	style, err := r.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, r.currentRow)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), r.currentRow)
		_ = r.file.SetCellStyle(r.currentSheet, startCell, endCell, style)
	}

	r.currentRow++
	return nil
}

// WriteRow writes a data row on the current sheet.
func (r *Report) WriteRow(row []any) error {
	if r.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}

	for i, val := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, r.currentRow)
		if err != nil {
			return err
		}
		if err := r.file.SetCellValue(r.currentSheet, cell, val); err != nil {
			return err
		}
	}

	r.currentRow++
	return nil
}

// Save writes the workbook to the writer.
func (r *Report) Save(w io.Writer) error {
	return r.file.Write(w)
}

// SaveToFile writes the workbook to disk.
func (r *Report) SaveToFile(path string) error {
	return r.file.SaveAs(path)
}

// Close releases workbook resources.
func (r *Report) Close() error {
	return r.file.Close()
}

// BookingsReport renders bookings onto a "Bookings" sheet.
func BookingsReport(bookings []models.Booking) (*Report, error) {
	r := NewReport()
	if err := r.AddSheet("Bookings"); err != nil {
		return nil, err
	}
	header := []string{"Code", "Vendor", "Service", "Date", "Time", "Visit", "Address", "Status", "Price", "Created"}
	if err := r.WriteHeader(header); err != nil {
		return nil, err
	}
	for _, b := range bookings {
		row := []any{
			b.BookingCode,
			b.VendorName,
			b.ServiceName,
			b.Date,
			b.Time,
			string(b.VisitType),
			b.Address,
			b.Status,
			b.Price,
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := r.WriteRow(row); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// OrdersReport renders orders onto an "Orders" sheet, one line per
// order.
func OrdersReport(orders []models.Order) (*Report, error) {
	r := NewReport()
	if err := r.AddSheet("Orders"); err != nil {
		return nil, err
	}
	header := []string{"Code", "User", "Items", "Subtotal", "Delivery", "Total", "City", "Payment", "Created"}
	if err := r.WriteHeader(header); err != nil {
		return nil, err
	}
	for _, o := range orders {
		var count int
		for _, item := range o.Items {
			count += item.Quantity
		}
		row := []any{
			o.OrderCode,
			o.UserID,
			count,
			o.Subtotal,
			o.Delivery,
			o.Total,
			o.Shipping.City,
			o.Shipping.PaymentMethod,
			o.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := r.WriteRow(row); err != nil {
			return nil, err
		}
	}
	return r, nil
}
