package services

import (
	"errors"
	"testing"
	"time"

	"dorm-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newResidentService(t *testing.T) (*ResidentService, *stubNotifier) {
	t.Helper()
	notifier := &stubNotifier{}
	svc := NewResidentService(newTestDB(t), notifier)
	return svc, notifier
}

func roomStatus(t *testing.T, svc *ResidentService, id uint) models.RoomStatus {
	t.Helper()
	var room models.Room
	require.NoError(t, svc.DB.First(&room, id).Error)
	return room.Status
}

func TestCheckInFirstResidentBecomesMainTenant(t *testing.T) {
	svc, _ := newResidentService(t)
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	svc.clock = fixedClock(now)

	room := makeRoom(t, svc.DB, testOrg, "101", 3500)

	first, err := svc.CheckIn(testOrg, CheckInInput{
		RoomID:         room.ID,
		FullName:       "Anan P",
		Deposit:        5000,
		ContractMonths: 12,
	})
	require.NoError(t, err)

	assert.True(t, first.IsMainTenant)
	assert.Equal(t, models.ResidentActive, first.Status)
	assert.Equal(t, models.DepositHeld, first.DepositStatus)
	require.NotNil(t, first.ContractEndDate)
	assert.True(t, first.ContractEndDate.Equal(now.AddDate(0, 12, 0)))
	assert.Equal(t, models.RoomOccupied, roomStatus(t, svc, room.ID))

	second, err := svc.CheckIn(testOrg, CheckInInput{RoomID: room.ID, FullName: "Beam K"})
	require.NoError(t, err)
	assert.False(t, second.IsMainTenant)
}

func TestCheckInDefaultsFromRoom(t *testing.T) {
	svc, _ := newResidentService(t)
	room := makeRoom(t, svc.DB, testOrg, "201", 3000)
	require.NoError(t, svc.DB.Model(room).Updates(map[string]interface{}{
		"default_contract_months": 6,
		"default_deposit":         4000,
	}).Error)

	resident, err := svc.CheckIn(testOrg, CheckInInput{RoomID: room.ID, FullName: "Chai D"})
	require.NoError(t, err)
	assert.Equal(t, 6, resident.ContractMonths)
	assert.Equal(t, 4000.0, resident.Deposit)
}

func TestCheckInValidation(t *testing.T) {
	svc, _ := newResidentService(t)

	_, err := svc.CheckIn(testOrg, CheckInInput{RoomID: 999, FullName: "Nobody"})
	assert.ErrorIs(t, err, ErrNotFound)

	room := makeRoom(t, svc.DB, testOrg, "301", 3000)
	_, err = svc.CheckIn(testOrg, CheckInInput{RoomID: room.ID, FullName: "   "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTransferSwapsRoomStatuses(t *testing.T) {
	svc, _ := newResidentService(t)
	oldRoom := makeRoom(t, svc.DB, testOrg, "401", 3000)
	newRoom := makeRoom(t, svc.DB, testOrg, "402", 3200)

	resident, err := svc.CheckIn(testOrg, CheckInInput{RoomID: oldRoom.ID, FullName: "Mover"})
	require.NoError(t, err)

	moved, err := svc.Transfer(resident.ID, TransferInput{NewRoomID: newRoom.ID})
	require.NoError(t, err)

	require.NotNil(t, moved.RoomID)
	assert.Equal(t, newRoom.ID, *moved.RoomID)
	assert.Equal(t, models.RoomAvailable, roomStatus(t, svc, oldRoom.ID))
	assert.Equal(t, models.RoomOccupied, roomStatus(t, svc, newRoom.ID))
}

func TestTransferSharedRoomStaysOccupied(t *testing.T) {
	svc, _ := newResidentService(t)
	shared := makeRoom(t, svc.DB, testOrg, "501", 3000)
	target := makeRoom(t, svc.DB, testOrg, "502", 3000)

	_, err := svc.CheckIn(testOrg, CheckInInput{RoomID: shared.ID, FullName: "Stayer"})
	require.NoError(t, err)
	mover, err := svc.CheckIn(testOrg, CheckInInput{RoomID: shared.ID, FullName: "Mover"})
	require.NoError(t, err)

	_, err = svc.Transfer(mover.ID, TransferInput{NewRoomID: target.ID})
	require.NoError(t, err)

	assert.Equal(t, models.RoomOccupied, roomStatus(t, svc, shared.ID))
	assert.Equal(t, models.RoomOccupied, roomStatus(t, svc, target.ID))
}

func TestTransferUpdatesProfile(t *testing.T) {
	svc, _ := newResidentService(t)
	roomA := makeRoom(t, svc.DB, testOrg, "601", 3000)
	roomB := makeRoom(t, svc.DB, testOrg, "602", 3000)

	resident, err := svc.CheckIn(testOrg, CheckInInput{RoomID: roomA.ID, FullName: "Old Name"})
	require.NoError(t, err)

	name := "New Name"
	phone := "0812345678"
	moved, err := svc.Transfer(resident.ID, TransferInput{NewRoomID: roomB.ID, FullName: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "New Name", moved.FullName)
	assert.Equal(t, "0812345678", moved.Phone)
}

func TestTransferInactiveResidentConflicts(t *testing.T) {
	svc, _ := newResidentService(t)
	room := makeRoom(t, svc.DB, testOrg, "701", 3000)
	resident, err := svc.CheckIn(testOrg, CheckInInput{RoomID: room.ID, FullName: "Leaver"})
	require.NoError(t, err)
	_, err = svc.Checkout(testOrg, resident.ID, CheckoutInput{})
	require.NoError(t, err)

	_, err = svc.Transfer(resident.ID, TransferInput{NewRoomID: room.ID})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCheckoutOnTimeAtGraceBoundary(t *testing.T) {
	svc, _ := newResidentService(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.clock = fixedClock(now)

	room := makeRoom(t, svc.DB, testOrg, "801", 3000)
	end := now.AddDate(0, 0, 3) // exactly today + default grace window
	start := end.AddDate(0, -6, 0)
	resident, err := svc.CheckIn(testOrg, CheckInInput{
		RoomID:            room.ID,
		FullName:          "Boundary",
		Deposit:           3000,
		ContractMonths:    6,
		ContractStartDate: &start,
	})
	require.NoError(t, err)

	result, err := svc.Checkout(testOrg, resident.ID, CheckoutInput{ReturnedAmount: 2000})
	require.NoError(t, err)

	assert.False(t, result.Early)
	assert.Equal(t, 2000.0, result.Returned)
	assert.Equal(t, models.DepositReturned, result.Resident.DepositStatus)
	assert.Equal(t, models.ResidentCheckedOut, result.Resident.Status)
	assert.Nil(t, result.Resident.RoomID)
	assert.False(t, result.Resident.IsMainTenant)
	assert.Equal(t, models.RoomAvailable, roomStatus(t, svc, room.ID))
}

func TestCheckoutEarlyForfeitsDeposit(t *testing.T) {
	svc, notifier := newResidentService(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.clock = fixedClock(now)

	room := makeRoom(t, svc.DB, testOrg, "901", 3000)
	resident, err := svc.CheckIn(testOrg, CheckInInput{
		RoomID:         room.ID,
		FullName:       "Early Leaver",
		Deposit:        5000,
		ContractMonths: 6, // contract runs to September
	})
	require.NoError(t, err)

	chatID := "U-early"
	require.NoError(t, svc.DB.Model(&models.Resident{}).Where("id = ?", resident.ID).Update("chat_user_id", chatID).Error)

	result, err := svc.Checkout(testOrg, resident.ID, CheckoutInput{ReturnedAmount: 5000})
	require.NoError(t, err)

	assert.True(t, result.Early)
	assert.Equal(t, 0.0, result.Returned) // requested amount ignored on early checkout
	assert.Equal(t, models.DepositForfeited, result.Resident.DepositStatus)
	assert.NotEmpty(t, result.Resident.ForfeitReason)

	msgs := notifier.messages()
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[len(msgs)-1].Text, "forfeited")
}

func TestCheckoutReturnedAmountBounds(t *testing.T) {
	svc, _ := newResidentService(t)
	now := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	svc.clock = fixedClock(now)

	room := makeRoom(t, svc.DB, testOrg, "1001", 3000)
	start := now.AddDate(0, -7, 0)
	resident, err := svc.CheckIn(testOrg, CheckInInput{
		RoomID:            room.ID,
		FullName:          "Past End",
		Deposit:           3000,
		ContractMonths:    6,
		ContractStartDate: &start,
	})
	require.NoError(t, err)

	_, err = svc.Checkout(testOrg, resident.ID, CheckoutInput{ReturnedAmount: 3500})
	assert.ErrorIs(t, err, ErrValidation)

	// resident is untouched after the failed attempt
	current, err := svc.GetByID(resident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResidentActive, current.Status)
}

func TestCheckoutSharedRoomKeepsRoomOccupied(t *testing.T) {
	svc, _ := newResidentService(t)
	room := makeRoom(t, svc.DB, testOrg, "1101", 3000)

	_, err := svc.CheckIn(testOrg, CheckInInput{RoomID: room.ID, FullName: "Stays"})
	require.NoError(t, err)
	leaver, err := svc.CheckIn(testOrg, CheckInInput{RoomID: room.ID, FullName: "Leaves"})
	require.NoError(t, err)

	_, err = svc.Checkout(testOrg, leaver.ID, CheckoutInput{})
	require.NoError(t, err)
	assert.Equal(t, models.RoomOccupied, roomStatus(t, svc, room.ID))
}

func TestCheckoutTwiceConflicts(t *testing.T) {
	svc, _ := newResidentService(t)
	room := makeRoom(t, svc.DB, testOrg, "1201", 3000)
	resident, err := svc.CheckIn(testOrg, CheckInInput{RoomID: room.ID, FullName: "Once"})
	require.NoError(t, err)

	_, err = svc.Checkout(testOrg, resident.ID, CheckoutInput{})
	require.NoError(t, err)
	_, err = svc.Checkout(testOrg, resident.ID, CheckoutInput{})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSetMainTenantIsExclusive(t *testing.T) {
	svc, _ := newResidentService(t)
	room := makeRoom(t, svc.DB, testOrg, "1301", 3000)

	_, err := svc.CheckIn(testOrg, CheckInInput{RoomID: room.ID, FullName: "First"})
	require.NoError(t, err)
	second, err := svc.CheckIn(testOrg, CheckInInput{RoomID: room.ID, FullName: "Second"})
	require.NoError(t, err)

	require.NoError(t, svc.SetMainTenant(second.ID))

	var mains []models.Resident
	require.NoError(t, svc.DB.Where("room_id = ? AND is_main_tenant = ?", room.ID, true).Find(&mains).Error)
	require.Len(t, mains, 1)
	assert.Equal(t, second.ID, mains[0].ID)
}

func TestUpdateStripsProtectedFields(t *testing.T) {
	svc, _ := newResidentService(t)
	room := makeRoom(t, svc.DB, testOrg, "1401", 3000)
	resident, err := svc.CheckIn(testOrg, CheckInInput{RoomID: room.ID, FullName: "Fixed"})
	require.NoError(t, err)

	_, err = svc.Update(resident.ID, map[string]interface{}{
		"phone":   "0899999999",
		"status":  string(models.ResidentCheckedOut),
		"room_id": nil,
	})
	require.NoError(t, err)

	current, err := svc.GetByID(resident.ID)
	require.NoError(t, err)
	assert.Equal(t, "0899999999", current.Phone)
	assert.Equal(t, models.ResidentActive, current.Status)
	assert.NotNil(t, current.RoomID)
}

func TestTransferRollbackLeavesRoomsUntouched(t *testing.T) {
	svc, _ := newResidentService(t)
	oldRoom := makeRoom(t, svc.DB, testOrg, "801", 3000)
	newRoom := makeRoom(t, svc.DB, testOrg, "802", 3200)

	resident, err := svc.CheckIn(testOrg, CheckInInput{RoomID: oldRoom.ID, FullName: "Mover"})
	require.NoError(t, err)
	require.Equal(t, models.RoomOccupied, roomStatus(t, svc, oldRoom.ID))

	// Fail the resident row update, after the room rows were already
	// flipped inside the same transaction.
	require.NoError(t, svc.DB.Callback().Update().Before("gorm:update").Register("fail_resident_update", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Model.(*models.Resident); ok {
			tx.AddError(errors.New("connection reset"))
		}
	}))

	_, err = svc.Transfer(resident.ID, TransferInput{NewRoomID: newRoom.ID})
	require.Error(t, err)

	assert.Equal(t, models.RoomOccupied, roomStatus(t, svc, oldRoom.ID))
	assert.Equal(t, models.RoomAvailable, roomStatus(t, svc, newRoom.ID))

	var after models.Resident
	require.NoError(t, svc.DB.First(&after, resident.ID).Error)
	require.NotNil(t, after.RoomID)
	assert.Equal(t, oldRoom.ID, *after.RoomID)
	assert.Equal(t, models.ResidentActive, after.Status)
}

func TestIssueVerificationCode(t *testing.T) {
	svc, _ := newResidentService(t)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	svc.clock = fixedClock(now)

	room := makeRoom(t, svc.DB, testOrg, "1501", 3000)
	resident, err := svc.CheckIn(testOrg, CheckInInput{RoomID: room.ID, FullName: "Linker"})
	require.NoError(t, err)

	code, err := svc.IssueVerificationCode(resident.ID)
	require.NoError(t, err)
	assert.Len(t, code.Code, 6)
	assert.Equal(t, resident.ID, code.ResidentID)
	require.NotNil(t, code.ExpiresAt)
	assert.True(t, code.ExpiresAt.Equal(now.Add(7*24*time.Hour)))

	_, err = svc.IssueVerificationCode(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
