package services

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dorm-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

// newTestDB opens a fresh in-memory database per test. The shared-cache
// name keeps all pooled connections on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.Admin{},
		&models.Room{},
		&models.RateSetting{},
		&models.Resident{},
		&models.Billing{},
		&models.RecurringExpense{},
		&models.Expense{},
		&models.Issue{},
		&models.VerificationCode{},
		&models.ChatSession{},
		&models.AuditLog{},
	))
	return db
}

type sentMessage struct {
	UserID string
	Text   string
}

// stubNotifier records pushed messages; set err to simulate a down
// messaging platform.
type stubNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *stubNotifier) PushText(chatUserID, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{UserID: chatUserID, Text: text})
	return nil
}

func (n *stubNotifier) messages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]sentMessage, len(n.sent))
	copy(out, n.sent)
	return out
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func seedRates(t *testing.T, db *gorm.DB, orgID uint, rs models.RateSetting) models.RateSetting {
	t.Helper()
	rs.OrganizationID = orgID
	require.NoError(t, db.Create(&rs).Error)
	return rs
}

func makeRoom(t *testing.T, db *gorm.DB, orgID uint, number string, price float64) *models.Room {
	t.Helper()
	room := models.Room{
		OrganizationID: orgID,
		RoomNumber:     number,
		Price:          price,
		Status:         models.RoomAvailable,
	}
	require.NoError(t, db.Create(&room).Error)
	return &room
}

func makeResident(t *testing.T, db *gorm.DB, orgID uint, roomID *uint, name string) *models.Resident {
	t.Helper()
	resident := models.Resident{
		OrganizationID: orgID,
		RoomID:         roomID,
		FullName:       name,
		Status:         models.ResidentActive,
	}
	require.NoError(t, db.Create(&resident).Error)
	return &resident
}
