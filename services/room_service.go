package services

import (
	"errors"
	"fmt"
	"strings"

	"dorm-backend/models"

	"gorm.io/gorm"
)

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func (s *RoomService) Create(orgID uint, room models.Room) (*models.Room, error) {
	room.OrganizationID = orgID
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return nil, fmt.Errorf("%w: room number is required", ErrValidation)
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}

	if err := s.DB.Create(&room).Error; err != nil {
		lc := strings.ToLower(err.Error())
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") {
			return nil, fmt.Errorf("%w: room number '%s' already exists", ErrConflict, room.RoomNumber)
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return &room, nil
}

func (s *RoomService) GetAll(orgID uint) ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Where("organization_id = ?", orgID).Order("room_number ASC").Find(&rooms).Error
	return rooms, err
}

func (s *RoomService) GetByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &room, nil
}

func (s *RoomService) Update(id uint, updates map[string]interface{}) (*models.Room, error) {
	delete(updates, "id")
	delete(updates, "organization_id")
	delete(updates, "created_at")
	delete(updates, "updated_at")
	delete(updates, "deleted_at")

	room, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.DB.Model(room).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update room: %w", err)
		}
	}
	return room, nil
}

// Delete removes a room. Rooms with billing or resident history are
// kept (soft reference integrity for financial records).
func (s *RoomService) Delete(id uint) error {
	var billCount int64
	if err := s.DB.Model(&models.Billing{}).Where("room_id = ?", id).Count(&billCount).Error; err != nil {
		return err
	}
	var residentCount int64
	if err := s.DB.Model(&models.Resident{}).Unscoped().Where("room_id = ?", id).Count(&residentCount).Error; err != nil {
		return err
	}
	if billCount > 0 || residentCount > 0 {
		return fmt.Errorf("%w: room has billing or resident history", ErrConflict)
	}

	result := s.DB.Delete(&models.Room{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: room %d", ErrNotFound, id)
	}
	return nil
}
