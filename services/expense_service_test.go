package services

import (
	"testing"
	"time"

	"dorm-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMonthlyIsIdempotent(t *testing.T) {
	svc := NewExpenseService(newTestDB(t))
	svc.clock = fixedClock(time.Date(2026, 4, 17, 15, 0, 0, 0, time.UTC))

	_, err := svc.CreateRecurring(testOrg, models.RecurringExpense{Name: "Cleaning", Category: "service", Amount: 1500, Active: true})
	require.NoError(t, err)
	_, err = svc.CreateRecurring(testOrg, models.RecurringExpense{Name: "Garbage", Category: "service", Amount: 300, Active: true})
	require.NoError(t, err)

	created, err := svc.GenerateMonthly(testOrg)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	// same month again: nothing new
	again, err := svc.GenerateMonthly(testOrg)
	require.NoError(t, err)
	assert.Equal(t, 0, again)

	expenses, err := svc.ListExpenses(testOrg, nil)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	for _, e := range expenses {
		assert.True(t, e.Month.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
	}
}

func TestGenerateMonthlyNewMonthCreatesAgain(t *testing.T) {
	svc := NewExpenseService(newTestDB(t))
	svc.clock = fixedClock(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.CreateRecurring(testOrg, models.RecurringExpense{Name: "Cleaning", Amount: 1500, Active: true})
	require.NoError(t, err)

	created, err := svc.GenerateMonthly(testOrg)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	svc.clock = fixedClock(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	created, err = svc.GenerateMonthly(testOrg)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	may := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	expenses, err := svc.ListExpenses(testOrg, &may)
	require.NoError(t, err)
	assert.Len(t, expenses, 1)
}

func TestGenerateMonthlySkipsInactiveTemplates(t *testing.T) {
	svc := NewExpenseService(newTestDB(t))

	tpl, err := svc.CreateRecurring(testOrg, models.RecurringExpense{Name: "Old Contract", Amount: 900, Active: true})
	require.NoError(t, err)
	_, err = svc.UpdateRecurring(tpl.ID, map[string]interface{}{"active": false})
	require.NoError(t, err)

	created, err := svc.GenerateMonthly(testOrg)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestRecurringCRUD(t *testing.T) {
	svc := NewExpenseService(newTestDB(t))

	_, err := svc.CreateRecurring(testOrg, models.RecurringExpense{Amount: 100})
	assert.ErrorIs(t, err, ErrValidation)

	tpl, err := svc.CreateRecurring(testOrg, models.RecurringExpense{Name: "Internet", Amount: 600, Active: true})
	require.NoError(t, err)

	updated, err := svc.UpdateRecurring(tpl.ID, map[string]interface{}{"amount": 650.0})
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, updated.ID)

	list, err := svc.ListRecurring(testOrg)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 650.0, list[0].Amount)

	require.NoError(t, svc.DeleteRecurring(tpl.ID))
	assert.ErrorIs(t, svc.DeleteRecurring(tpl.ID), ErrNotFound)
}
