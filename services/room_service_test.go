package services

import (
	"testing"

	"dorm-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomCreateValidation(t *testing.T) {
	svc := NewRoomService(newTestDB(t))

	_, err := svc.Create(testOrg, models.Room{RoomNumber: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	room, err := svc.Create(testOrg, models.Room{RoomNumber: " 101 ", Price: 3500})
	require.NoError(t, err)
	assert.Equal(t, "101", room.RoomNumber)
	assert.Equal(t, models.RoomAvailable, room.Status)

	_, err = svc.Create(testOrg, models.Room{RoomNumber: "101"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRoomUpdateStripsProtectedFields(t *testing.T) {
	svc := NewRoomService(newTestDB(t))
	room, err := svc.Create(testOrg, models.Room{RoomNumber: "201", Price: 3000})
	require.NoError(t, err)

	_, err = svc.Update(room.ID, map[string]interface{}{
		"price":           3200.0,
		"organization_id": 99,
	})
	require.NoError(t, err)

	current, err := svc.GetByID(room.ID)
	require.NoError(t, err)
	assert.Equal(t, 3200.0, current.Price)
	assert.Equal(t, testOrg, current.OrganizationID)
}

func TestRoomNumberUniquePerOrganization(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoomService(db)

	_, err := svc.Create(testOrg, models.Room{RoomNumber: "101"})
	require.NoError(t, err)

	// Another organization may reuse the number.
	other, err := svc.Create(testOrg+1, models.Room{RoomNumber: "101"})
	require.NoError(t, err)
	assert.Equal(t, testOrg+1, other.OrganizationID)

	_, err = svc.Create(testOrg, models.Room{RoomNumber: "101"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRoomDeleteGuardsHistory(t *testing.T) {
	svc := NewRoomService(newTestDB(t))

	withBill, err := svc.Create(testOrg, models.Room{RoomNumber: "301"})
	require.NoError(t, err)
	require.NoError(t, svc.DB.Create(&models.Billing{
		OrganizationID: testOrg,
		RoomID:         withBill.ID,
		PaymentStatus:  models.PaymentPending,
	}).Error)
	assert.ErrorIs(t, svc.Delete(withBill.ID), ErrConflict)

	withHistory, err := svc.Create(testOrg, models.Room{RoomNumber: "302"})
	require.NoError(t, err)
	makeResident(t, svc.DB, testOrg, &withHistory.ID, "Former Tenant")
	assert.ErrorIs(t, svc.Delete(withHistory.ID), ErrConflict)

	empty, err := svc.Create(testOrg, models.Room{RoomNumber: "303"})
	require.NoError(t, err)
	assert.NoError(t, svc.Delete(empty.ID))
	assert.ErrorIs(t, svc.Delete(empty.ID), ErrNotFound)

	_, err = svc.GetByID(empty.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
