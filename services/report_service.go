package services

import (
	"fmt"
	"time"

	"dorm-backend/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportService renders billing and resident reports as .xlsx files.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

// BillingReport builds a workbook of the organization's bills,
// optionally restricted to one calendar month.
func (s *ReportService) BillingReport(orgID uint, month *time.Time) (*excelize.File, error) {
	q := s.DB.Preload("Room").Preload("Resident").
		Where("organization_id = ?", orgID).
		Order("id ASC")
	if month != nil {
		start := monthStart(*month)
		q = q.Where("month >= ? AND month < ?", start, start.AddDate(0, 1, 0))
	}

	var bills []models.Billing
	if err := q.Find(&bills).Error; err != nil {
		return nil, fmt.Errorf("failed to load bills for report: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Billing"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Bill ID", "Room", "Resident", "Month", "Rent",
		"Water Units", "Water Cost", "Electric Units", "Electric Cost",
		"Trash", "Internet", "Other", "Common", "Total", "Status", "Paid At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, bill := range bills {
		residentName := ""
		if bill.Resident != nil {
			residentName = bill.Resident.FullName
		}
		paidAt := ""
		if bill.PaymentDate != nil {
			paidAt = bill.PaymentDate.Format("2006-01-02 15:04")
		}

		values := []interface{}{
			bill.ID,
			bill.Room.RoomNumber,
			residentName,
			bill.Month.Format("2006-01"),
			bill.RoomPrice,
			bill.WaterMeterCurrent - bill.WaterMeterLast,
			bill.WaterCost,
			bill.ElectricMeterCurrent - bill.ElectricMeterLast,
			bill.ElectricCost,
			bill.TrashFee,
			bill.InternetFee,
			bill.OtherFee,
			bill.CommonFee,
			bill.TotalAmount,
			string(bill.PaymentStatus),
			paidAt,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}

// ResidentReport builds a workbook of the organization's residents
// with contract and deposit state.
func (s *ReportService) ResidentReport(orgID uint) (*excelize.File, error) {
	var residents []models.Resident
	if err := s.DB.Preload("Room").
		Where("organization_id = ?", orgID).
		Order("id ASC").
		Find(&residents).Error; err != nil {
		return nil, fmt.Errorf("failed to load residents for report: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Residents"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Name", "Room", "Status", "Main Tenant",
		"Deposit", "Deposit Status", "Returned", "Contract Start", "Contract End", "Checked Out"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	fmtDate := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	}

	for row, r := range residents {
		values := []interface{}{
			r.ID,
			r.FullName,
			r.Room.RoomNumber,
			string(r.Status),
			r.IsMainTenant,
			r.Deposit,
			string(r.DepositStatus),
			r.DepositReturned,
			fmtDate(r.ContractStartDate),
			fmtDate(r.ContractEndDate),
			fmtDate(r.CheckOutDate),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}
