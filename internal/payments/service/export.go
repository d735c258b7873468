package service

import (
	"fmt"
	"io"
	"time"

	"carrental/pkg/model"

	"github.com/xuri/excelize/v2"
)

const paymentsSheet = "Payments"

var paymentColumns = []string{
	"Booking ID", "Car", "User Email", "Amount (INR)", "Payment ID",
	"Order ID", "Payment Status", "Booking Date", "Start", "End",
}

func writeWorkbook(w io.Writer, summary *model.PaymentSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", paymentsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeRow(f, 1, toCells(paymentColumns)); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		end, _ := excelize.CoordinatesToCellName(len(paymentColumns), 1)
		_ = f.SetCellStyle(paymentsSheet, "A1", end, style)
	}

	row := 2
	for _, p := range summary.Payments {
		cells := []any{
			p.BookingID, p.CarName, p.UserEmail, p.Amount, p.PaymentID,
			p.OrderID, p.PaymentStatus, formatTime(p.BookingDate), formatTime(p.StartTime), formatTime(p.EndTime),
		}
		if err := writeRow(f, row, cells); err != nil {
			return err
		}
		row++
	}

	row++
	totals := [][]any{
		{"Total payments", summary.TotalPayments},
		{"Total revenue", summary.TotalRevenue},
		{"Currency", summary.Currency},
	}
	for _, cells := range totals {
		if err := writeRow(f, row, cells); err != nil {
			return err
		}
		row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, cells []any) error {
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(paymentsSheet, cell, v); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
