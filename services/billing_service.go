// services/billing_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"dorm-backend/models"

	"gorm.io/gorm"
)

// BillingService wraps *gorm.DB for bill assembly and payment state
// transitions.
type BillingService struct {
	DB       *gorm.DB
	Notifier Notifier
	clock    func() time.Time
}

func NewBillingService(db *gorm.DB, notifier Notifier) *BillingService {
	return &BillingService{DB: db, Notifier: notifier, clock: time.Now}
}

// FeeSet is the flat-fee portion of a bill. Nil fields default from
// the organization's RateSetting.
type FeeSet struct {
	Trash    *float64 `json:"trash"`
	Internet *float64 `json:"internet"`
	Other    *float64 `json:"other"`
	Common   *float64 `json:"common"`
}

// CreateBillInput carries one room's meter readings plus optional fee
// and rate overrides.
type CreateBillInput struct {
	RoomID uint `json:"roomId"`

	WaterMeterLast    float64 `json:"waterMeterLast"`
	WaterMeterCurrent float64 `json:"waterMeterCurrent"`

	ElectricMeterLast    float64 `json:"electricMeterLast"`
	ElectricMeterCurrent float64 `json:"electricMeterCurrent"`

	WaterRate    *float64 `json:"waterRate"`
	ElectricRate *float64 `json:"electricRate"`

	Fees FeeSet `json:"fees"`
}

// Rates returns the organization's fee schedule, falling back to an
// all-zero schedule with default grace windows when none is configured.
func (s *BillingService) Rates(orgID uint) (models.RateSetting, error) {
	var rs models.RateSetting
	err := s.DB.Where("organization_id = ?", orgID).First(&rs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RateSetting{OrganizationID: orgID, CheckoutGraceDays: 3, OverdueGraceDay: 5}, nil
	}
	if err != nil {
		return rs, fmt.Errorf("failed to load rate setting: %w", err)
	}
	return rs, nil
}

// UpdateRates upserts the organization's fee schedule.
func (s *BillingService) UpdateRates(orgID uint, rs models.RateSetting) (models.RateSetting, error) {
	rs.OrganizationID = orgID
	var existing models.RateSetting
	err := s.DB.Where("organization_id = ?", orgID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if cErr := s.DB.Create(&rs).Error; cErr != nil {
			return rs, fmt.Errorf("failed to create rate setting: %w", cErr)
		}
		return rs, nil
	}
	if err != nil {
		return rs, err
	}
	rs.ID = existing.ID
	if err := s.DB.Save(&rs).Error; err != nil {
		return rs, fmt.Errorf("failed to update rate setting: %w", err)
	}
	return rs, nil
}

func orDefault(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

// activeResident returns the room's currently-Active resident. With
// multiple active residents (shared room) the lowest id wins, so the
// pick is deterministic.
func (s *BillingService) activeResident(tx *gorm.DB, roomID uint) (*models.Resident, error) {
	var resident models.Resident
	err := tx.Where("room_id = ? AND status = ?", roomID, models.ResidentActive).
		Order("id ASC").
		First(&resident).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resident, nil
}

// CreateBill assembles and persists one bill: room rent + metered
// water/electric costs + flat fees, status Pending. TotalAmount is
// computed exactly once here and treated as a frozen ledger value.
func (s *BillingService) CreateBill(orgID uint, input CreateBillInput) (*models.Billing, error) {
	var room models.Room
	if err := s.DB.First(&room, input.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, input.RoomID)
		}
		return nil, fmt.Errorf("db error checking room %d: %w", input.RoomID, err)
	}

	rates, err := s.Rates(orgID)
	if err != nil {
		return nil, err
	}

	waterRate := orDefault(input.WaterRate, rates.WaterRate)
	electricRate := orDefault(input.ElectricRate, rates.ElectricRate)

	water := CalcMeterLine(input.WaterMeterLast, input.WaterMeterCurrent, waterRate)
	electric := CalcMeterLine(input.ElectricMeterLast, input.ElectricMeterCurrent, electricRate)

	trash := orDefault(input.Fees.Trash, rates.TrashFee)
	internet := orDefault(input.Fees.Internet, rates.InternetFee)
	other := orDefault(input.Fees.Other, 0)
	common := 0.0
	if room.ChargeCommonArea {
		common = orDefault(input.Fees.Common, rates.CommonFee)
	}

	resident, err := s.activeResident(s.DB, room.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find active resident: %w", err)
	}

	bill := models.Billing{
		OrganizationID: orgID,
		RoomID:         room.ID,
		Month:          s.clock(),
		RoomPrice:      room.Price,

		WaterMeterLast:    input.WaterMeterLast,
		WaterMeterCurrent: input.WaterMeterCurrent,
		WaterRate:         waterRate,
		WaterCost:         water.Cost,

		ElectricMeterLast:    input.ElectricMeterLast,
		ElectricMeterCurrent: input.ElectricMeterCurrent,
		ElectricRate:         electricRate,
		ElectricCost:         electric.Cost,

		TrashFee:    trash,
		InternetFee: internet,
		OtherFee:    other,
		CommonFee:   common,

		TotalAmount:   room.Price + water.Cost + electric.Cost + trash + internet + other + common,
		PaymentStatus: models.PaymentPending,
	}
	if resident != nil {
		bill.ResidentID = &resident.ID
	}

	if err := s.DB.Create(&bill).Error; err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	if resident != nil {
		notifyBestEffort(s.Notifier, resident.ChatUserID,
			fmt.Sprintf("Invoice for room %s: %.2f baht (water %.2f, electric %.2f). Please upload your payment slip.",
				room.RoomNumber, bill.TotalAmount, bill.WaterCost, bill.ElectricCost))
	}

	return &bill, nil
}

// CreateBills is the bulk bill-run variant: one shared fee set, each
// room processed independently. A failure on one room is logged and
// skipped without aborting the batch; the caller sees the created
// count.
func (s *BillingService) CreateBills(orgID uint, inputs []CreateBillInput, shared FeeSet) int {
	created := 0
	for _, input := range inputs {
		if input.Fees.Trash == nil {
			input.Fees.Trash = shared.Trash
		}
		if input.Fees.Internet == nil {
			input.Fees.Internet = shared.Internet
		}
		if input.Fees.Other == nil {
			input.Fees.Other = shared.Other
		}
		if input.Fees.Common == nil {
			input.Fees.Common = shared.Common
		}

		if _, err := s.CreateBill(orgID, input); err != nil {
			log.Printf("⚠️  bulk bill run: room %d skipped: %v", input.RoomID, err)
			continue
		}
		created++
	}
	return created
}

// paymentAction is one operation on the payment state machine.
type paymentAction string

const (
	actionUploadSlip paymentAction = "upload_slip"
	actionApprove    paymentAction = "approve"
	actionReject     paymentAction = "reject"
	actionCashPay    paymentAction = "cash_pay"
)

// validateTransition is the single place payment transition guards
// live. Returns ErrConflict when the action is not allowed from the
// current state.
func validateTransition(current models.PaymentStatus, action paymentAction) error {
	switch action {
	case actionUploadSlip:
		// Allowed from any state; meaningful only from Pending.
		return nil
	case actionApprove, actionReject:
		if current != models.PaymentReview {
			return fmt.Errorf("%w: bill is not in Review status", ErrConflict)
		}
		return nil
	case actionCashPay:
		if current == models.PaymentPaid {
			return fmt.Errorf("%w: bill is already Paid", ErrConflict)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown payment action %q", ErrConflict, action)
}

func (s *BillingService) getBill(id uint) (*models.Billing, error) {
	var bill models.Billing
	if err := s.DB.Preload("Resident").Preload("Room").First(&bill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: bill %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &bill, nil
}

// UploadSlip attaches a payment slip and forces the bill into Review.
func (s *BillingService) UploadSlip(billID uint, slipImage string) (*models.Billing, error) {
	bill, err := s.getBill(billID)
	if err != nil {
		return nil, err
	}
	if err := validateTransition(bill.PaymentStatus, actionUploadSlip); err != nil {
		return nil, err
	}

	now := s.clock()
	updates := map[string]interface{}{
		"payment_status": models.PaymentReview,
		"payment_date":   now,
		"slip_image":     slipImage,
	}
	if err := s.DB.Model(bill).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}
	bill.PaymentStatus = models.PaymentReview
	bill.PaymentDate = &now
	bill.SlipImage = slipImage
	return bill, nil
}

// Approve moves a bill under Review to Paid. Requires Review status.
func (s *BillingService) Approve(billID, adminID uint, note string) (*models.Billing, error) {
	return s.review(billID, adminID, note, actionApprove, models.PaymentPaid)
}

// Reject returns a bill under Review to Pending so the tenant can
// upload a new slip.
func (s *BillingService) Reject(billID, adminID uint, note string) (*models.Billing, error) {
	return s.review(billID, adminID, note, actionReject, models.PaymentPending)
}

func (s *BillingService) review(billID, adminID uint, note string, action paymentAction, next models.PaymentStatus) (*models.Billing, error) {
	bill, err := s.getBill(billID)
	if err != nil {
		return nil, err
	}
	if err := validateTransition(bill.PaymentStatus, action); err != nil {
		return nil, err
	}

	now := s.clock()
	updates := map[string]interface{}{
		"payment_status": next,
		"reviewed_by":    adminID,
		"reviewed_at":    now,
		"review_note":    note,
	}
	if err := s.DB.Model(bill).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}
	bill.PaymentStatus = next
	bill.ReviewedBy = &adminID
	bill.ReviewedAt = &now
	bill.ReviewNote = note

	if bill.Resident != nil {
		msg := fmt.Sprintf("Your payment for bill #%d was approved. Thank you!", bill.ID)
		if action == actionReject {
			msg = fmt.Sprintf("Your payment slip for bill #%d was rejected: %s. Please upload a new slip.", bill.ID, note)
		}
		notifyBestEffort(s.Notifier, bill.Resident.ChatUserID, msg)
	}

	return bill, nil
}

// CashPay marks a bill as Paid directly (admin-only shortcut bypassing
// Review). Re-paying a Paid bill is rejected as a conflict.
func (s *BillingService) CashPay(billID, adminID uint) (*models.Billing, error) {
	bill, err := s.getBill(billID)
	if err != nil {
		return nil, err
	}
	if err := validateTransition(bill.PaymentStatus, actionCashPay); err != nil {
		return nil, err
	}

	now := s.clock()
	updates := map[string]interface{}{
		"payment_status": models.PaymentPaid,
		"payment_date":   now,
		"reviewed_by":    adminID,
		"reviewed_at":    now,
		"review_note":    "cash payment",
	}
	if err := s.DB.Model(bill).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}
	bill.PaymentStatus = models.PaymentPaid
	bill.PaymentDate = &now
	bill.ReviewedBy = &adminID
	bill.ReviewedAt = &now

	if bill.Resident != nil {
		notifyBestEffort(s.Notifier, bill.Resident.ChatUserID,
			fmt.Sprintf("Cash payment recorded for bill #%d. Thank you!", bill.ID))
	}

	return bill, nil
}

// GetByID returns one bill with room and resident preloaded.
func (s *BillingService) GetByID(billID uint) (*models.Billing, error) {
	return s.getBill(billID)
}

// List returns an organization's bills, optionally filtered by room
// and/or payment status, newest first.
func (s *BillingService) List(orgID uint, roomID *uint, status *models.PaymentStatus) ([]models.Billing, error) {
	q := s.DB.Preload("Room").Preload("Resident").
		Where("organization_id = ?", orgID).
		Order("created_at DESC")
	if roomID != nil {
		q = q.Where("room_id = ?", *roomID)
	}
	if status != nil {
		q = q.Where("payment_status = ?", *status)
	}

	var bills []models.Billing
	if err := q.Find(&bills).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bills: %w", err)
	}
	return bills, nil
}
