package services

import (
	"testing"
	"time"

	"dorm-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCountsEverything(t *testing.T) {
	svc := NewBackupService(newTestDB(t))

	require.NoError(t, svc.DB.Create(&models.Organization{Name: "Dorm A"}).Error)
	room := makeRoom(t, svc.DB, testOrg, "101", 3000)
	makeResident(t, svc.DB, testOrg, &room.ID, "Tenant")

	// soft-deleted rows stay in the export
	gone := makeRoom(t, svc.DB, testOrg, "102", 3000)
	require.NoError(t, svc.DB.Delete(gone).Error)

	file, err := svc.Export()
	require.NoError(t, err)

	assert.Equal(t, "1", file.Metadata.Version)
	assert.NotEmpty(t, file.Metadata.BackupID)
	assert.Equal(t, 4, file.Metadata.TotalRecords)
	assert.Len(t, file.Data.Rooms, 2)
	assert.Len(t, file.Data.Residents, 1)
}

func TestRestoreRoundTrip(t *testing.T) {
	svc := NewBackupService(newTestDB(t))

	require.NoError(t, svc.DB.Create(&models.Organization{Name: "Dorm A"}).Error)
	room := makeRoom(t, svc.DB, testOrg, "201", 3500)
	resident := makeResident(t, svc.DB, testOrg, &room.ID, "Tenant")
	bill := models.Billing{
		OrganizationID: testOrg,
		RoomID:         room.ID,
		ResidentID:     &resident.ID,
		Month:          time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount:    4030,
		PaymentStatus:  models.PaymentPending,
	}
	require.NoError(t, svc.DB.Create(&bill).Error)

	file, err := svc.Export()
	require.NoError(t, err)

	// drift after the snapshot: the restore must erase this
	require.NoError(t, svc.DB.Model(&models.Room{}).Where("id = ?", room.ID).Update("price", 9999).Error)
	makeRoom(t, svc.DB, testOrg, "202", 1000)

	counts, err := svc.Restore(file)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["organizations"])
	assert.Equal(t, 1, counts["rooms"])
	assert.Equal(t, 1, counts["residents"])
	assert.Equal(t, 1, counts["billing"])

	var rooms []models.Room
	require.NoError(t, svc.DB.Find(&rooms).Error)
	require.Len(t, rooms, 1)
	assert.Equal(t, room.ID, rooms[0].ID)
	assert.Equal(t, 3500.0, rooms[0].Price)

	var restoredBill models.Billing
	require.NoError(t, svc.DB.First(&restoredBill, bill.ID).Error)
	assert.Equal(t, 4030.0, restoredBill.TotalAmount)
}

func TestRestoreRejectsUnknownVersion(t *testing.T) {
	svc := NewBackupService(newTestDB(t))

	_, err := svc.Restore(nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Restore(&BackupFile{Metadata: BackupMetadata{Version: "2"}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRestoreEmptyBackupWipes(t *testing.T) {
	svc := NewBackupService(newTestDB(t))
	makeRoom(t, svc.DB, testOrg, "301", 3000)

	counts, err := svc.Restore(&BackupFile{Metadata: BackupMetadata{Version: "1"}})
	require.NoError(t, err)
	assert.Equal(t, 0, counts["rooms"])

	var n int64
	require.NoError(t, svc.DB.Model(&models.Room{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}
