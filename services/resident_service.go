// services/resident_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dorm-backend/models"
	"dorm-backend/utils"

	"gorm.io/gorm"
)

// ResidentService owns the tenancy lifecycle: check-in, transfer,
// checkout and the main-tenant flag. Multi-step updates are wrapped in
// a transaction; there is no application-level locking beyond that.
type ResidentService struct {
	DB       *gorm.DB
	Notifier Notifier
	clock    func() time.Time
}

func NewResidentService(db *gorm.DB, notifier Notifier) *ResidentService {
	return &ResidentService{DB: db, Notifier: notifier, clock: time.Now}
}

// CheckInInput carries the new resident's details and contract terms.
type CheckInInput struct {
	RoomID   uint   `json:"roomId"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`

	Deposit           float64    `json:"deposit"`
	ContractMonths    int        `json:"contractMonths"`
	ContractStartDate *time.Time `json:"contractStartDate"`
}

// CheckIn creates the resident and flips the room to Occupied in one
// transaction. Contract end = start + duration months.
func (s *ResidentService) CheckIn(orgID uint, input CheckInInput) (*models.Resident, error) {
	if strings.TrimSpace(input.FullName) == "" {
		return nil, fmt.Errorf("%w: fullName is required", ErrValidation)
	}

	var resident models.Resident
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, input.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: room %d", ErrNotFound, input.RoomID)
			}
			return err
		}

		months := input.ContractMonths
		if months <= 0 {
			months = room.DefaultContractMonths
		}
		start := s.clock()
		if input.ContractStartDate != nil {
			start = *input.ContractStartDate
		}
		end := start.AddDate(0, months, 0)

		deposit := input.Deposit
		if deposit == 0 {
			deposit = room.DefaultDeposit
		}

		now := s.clock()
		resident = models.Resident{
			OrganizationID:    orgID,
			RoomID:            &room.ID,
			FullName:          strings.TrimSpace(input.FullName),
			Phone:             input.Phone,
			Email:             input.Email,
			Status:            models.ResidentActive,
			Deposit:           deposit,
			DepositStatus:     models.DepositHeld,
			ContractStartDate: &start,
			ContractEndDate:   &end,
			ContractMonths:    months,
			CheckInDate:       &now,
		}

		// First resident of the room becomes main tenant.
		var activeCount int64
		if err := tx.Model(&models.Resident{}).
			Where("room_id = ? AND status = ?", room.ID, models.ResidentActive).
			Count(&activeCount).Error; err != nil {
			return err
		}
		resident.IsMainTenant = activeCount == 0

		if err := tx.Create(&resident).Error; err != nil {
			return fmt.Errorf("failed to create resident: %w", err)
		}

		if err := tx.Model(&models.Room{}).
			Where("id = ?", room.ID).
			Update("status", models.RoomOccupied).Error; err != nil {
			return fmt.Errorf("failed to update room status: %w", err)
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &resident, nil
}

// remainingActive counts the room's Active residents excluding one.
func remainingActive(tx *gorm.DB, roomID uint, excludeResidentID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.Resident{}).
		Where("room_id = ? AND status = ? AND id <> ?", roomID, models.ResidentActive, excludeResidentID).
		Count(&count).Error
	return count, err
}

// TransferInput carries the target room plus optional profile updates.
type TransferInput struct {
	NewRoomID uint    `json:"newRoomId"`
	FullName  *string `json:"fullName"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

// Transfer moves a resident to another room. The new room becomes
// Occupied, the old room reverts to Available iff no other active
// resident remains, and the resident's row is updated — all in one
// transaction, so a partial transfer cannot be observed.
func (s *ResidentService) Transfer(residentID uint, input TransferInput) (*models.Resident, error) {
	var resident models.Resident
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&resident, residentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: resident %d", ErrNotFound, residentID)
			}
			return err
		}
		if resident.Status != models.ResidentActive {
			return fmt.Errorf("%w: resident is not active", ErrConflict)
		}

		var newRoom models.Room
		if err := tx.First(&newRoom, input.NewRoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: room %d", ErrNotFound, input.NewRoomID)
			}
			return err
		}

		oldRoomID := resident.RoomID
		sameRoom := oldRoomID != nil && *oldRoomID == newRoom.ID

		if !sameRoom {
			if err := tx.Model(&models.Room{}).
				Where("id = ?", newRoom.ID).
				Update("status", models.RoomOccupied).Error; err != nil {
				return err
			}

			if oldRoomID != nil {
				left, err := remainingActive(tx, *oldRoomID, resident.ID)
				if err != nil {
					return err
				}
				if left == 0 {
					if err := tx.Model(&models.Room{}).
						Where("id = ?", *oldRoomID).
						Update("status", models.RoomAvailable).Error; err != nil {
						return err
					}
				}
			}
		}

		updates := map[string]interface{}{"room_id": newRoom.ID}
		if input.FullName != nil {
			updates["full_name"] = strings.TrimSpace(*input.FullName)
		}
		if input.Phone != nil {
			updates["phone"] = *input.Phone
		}
		if input.Email != nil {
			updates["email"] = *input.Email
		}
		if err := tx.Model(&resident).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update resident: %w", err)
		}

		return tx.First(&resident, residentID).Error
	})
	if txErr != nil {
		return nil, txErr
	}
	return &resident, nil
}

// CheckoutInput: for an on-time checkout the admin specifies the
// returned amount (≤ deposit, may deduct for damages). Ignored for an
// early checkout, which forfeits the whole deposit.
type CheckoutInput struct {
	ReturnedAmount float64 `json:"returnedAmount"`
	Reason         string  `json:"reason"`
}

// CheckoutResult reports how the deposit was settled.
type CheckoutResult struct {
	Resident *models.Resident `json:"resident"`
	Early    bool             `json:"early"`
	Returned float64          `json:"returned"`
}

// Checkout closes a residency. Early iff today + graceDays is still
// before the contract end date; the knife edge (today + grace ==
// contract end) counts as on-time.
func (s *ResidentService) Checkout(orgID uint, residentID uint, input CheckoutInput) (*CheckoutResult, error) {
	rates, err := (&BillingService{DB: s.DB}).Rates(orgID)
	if err != nil {
		return nil, err
	}
	graceDays := rates.CheckoutGraceDays

	result := &CheckoutResult{}
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var resident models.Resident
		if err := tx.First(&resident, residentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: resident %d", ErrNotFound, residentID)
			}
			return err
		}
		if resident.Status != models.ResidentActive {
			return fmt.Errorf("%w: resident already checked out", ErrConflict)
		}

		now := s.clock()
		early := false
		if resident.ContractEndDate != nil {
			early = now.AddDate(0, 0, graceDays).Before(*resident.ContractEndDate)
		}

		returned := 0.0
		depositStatus := models.DepositForfeited
		reason := strings.TrimSpace(input.Reason)
		if early {
			if reason == "" {
				reason = "early checkout before contract end"
			}
		} else {
			returned = input.ReturnedAmount
			if returned < 0 || returned > resident.Deposit {
				return fmt.Errorf("%w: returned amount must be between 0 and the deposit", ErrValidation)
			}
			if returned > 0 {
				depositStatus = models.DepositReturned
			}
		}

		updates := map[string]interface{}{
			"status":           models.ResidentCheckedOut,
			"room_id":          nil,
			"check_out_date":   now,
			"deposit_status":   depositStatus,
			"deposit_returned": returned,
			"forfeit_reason":   reason,
			"is_main_tenant":   false,
		}
		if err := tx.Model(&resident).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update resident: %w", err)
		}

		if resident.RoomID != nil {
			left, err := remainingActive(tx, *resident.RoomID, resident.ID)
			if err != nil {
				return err
			}
			if left == 0 {
				if err := tx.Model(&models.Room{}).
					Where("id = ?", *resident.RoomID).
					Update("status", models.RoomAvailable).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.First(&resident, residentID).Error; err != nil {
			return err
		}
		result.Resident = &resident
		result.Early = early
		result.Returned = returned
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if result.Resident != nil {
		msg := fmt.Sprintf("Checkout complete. Deposit returned: %.2f baht.", result.Returned)
		if result.Early {
			msg = "Checkout complete. The deposit was forfeited because the contract was ended early."
		}
		notifyBestEffort(s.Notifier, result.Resident.ChatUserID, msg)
	}

	return result, nil
}

// SetMainTenant makes the given resident the single main tenant of
// their room: bulk-unset on all roommates, then set on the target, in
// one transaction.
func (s *ResidentService) SetMainTenant(residentID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var resident models.Resident
		if err := tx.First(&resident, residentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: resident %d", ErrNotFound, residentID)
			}
			return err
		}
		if resident.Status != models.ResidentActive || resident.RoomID == nil {
			return fmt.Errorf("%w: resident has no active room", ErrConflict)
		}

		if err := tx.Model(&models.Resident{}).
			Where("room_id = ?", *resident.RoomID).
			Update("is_main_tenant", false).Error; err != nil {
			return err
		}
		return tx.Model(&resident).Update("is_main_tenant", true).Error
	})
}

// Update edits a resident's profile fields (not lifecycle state).
func (s *ResidentService) Update(residentID uint, updates map[string]interface{}) (*models.Resident, error) {
	delete(updates, "id")
	delete(updates, "status")
	delete(updates, "room_id")
	delete(updates, "created_at")
	delete(updates, "deleted_at")

	var resident models.Resident
	if err := s.DB.First(&resident, residentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: resident %d", ErrNotFound, residentID)
		}
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&resident).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update resident: %w", err)
		}
	}
	return &resident, nil
}

// GetByID returns a resident with the room preloaded.
func (s *ResidentService) GetByID(residentID uint) (*models.Resident, error) {
	var resident models.Resident
	if err := s.DB.Preload("Room").First(&resident, residentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: resident %d", ErrNotFound, residentID)
		}
		return nil, err
	}
	return &resident, nil
}

// List returns an organization's residents, optionally only active
// ones.
func (s *ResidentService) List(orgID uint, activeOnly bool) ([]models.Resident, error) {
	q := s.DB.Preload("Room").Where("organization_id = ?", orgID).Order("id ASC")
	if activeOnly {
		q = q.Where("status = ?", models.ResidentActive)
	}
	var residents []models.Resident
	if err := q.Find(&residents).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve residents: %w", err)
	}
	return residents, nil
}

// IssueVerificationCode generates a chat-link code for a resident. The
// resident sends "#CODE" to the chat bot to link their chat identity.
func (s *ResidentService) IssueVerificationCode(residentID uint) (*models.VerificationCode, error) {
	var resident models.Resident
	if err := s.DB.First(&resident, residentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: resident %d", ErrNotFound, residentID)
		}
		return nil, err
	}

	// retry on unique collision
	for attempt := 0; attempt < 5; attempt++ {
		raw, err := utils.GenerateVerificationCode(6)
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}
		expires := s.clock().Add(7 * 24 * time.Hour)
		code := models.VerificationCode{
			ResidentID: resident.ID,
			Code:       raw,
			ExpiresAt:  &expires,
		}
		if err := s.DB.Create(&code).Error; err != nil {
			lc := strings.ToLower(err.Error())
			if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") {
				continue
			}
			return nil, fmt.Errorf("failed to create verification code: %w", err)
		}
		return &code, nil
	}
	return nil, errors.New("failed to create verification code after retries")
}
