package controllers

import (
	"net/http"
	"time"

	"dorm-backend/middleware"
	"dorm-backend/models"
	"dorm-backend/services"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
)

type ExpenseController struct {
	Expenses *services.ExpenseService
	Audit    *services.AuditService
}

func NewExpenseController(expenses *services.ExpenseService, audit *services.AuditService) *ExpenseController {
	return &ExpenseController{Expenses: expenses, Audit: audit}
}

func (ec *ExpenseController) ListRecurring(c *gin.Context) {
	list, err := ec.Expenses.ListRecurring(middleware.OrgID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ec *ExpenseController) CreateRecurring(c *gin.Context) {
	var payload models.RecurringExpense
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := ec.Expenses.CreateRecurring(middleware.OrgID(c), payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ec.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "create", "recurring_expense", created.ID, nil, created, c.ClientIP())
	c.JSON(http.StatusCreated, created)
}

func (ec *ExpenseController) UpdateRecurring(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := ec.Expenses.UpdateRecurring(id, updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ec.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "update", "recurring_expense", id, nil, updated, c.ClientIP())
	c.JSON(http.StatusOK, updated)
}

func (ec *ExpenseController) DeleteRecurring(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ec.Expenses.DeleteRecurring(id); err != nil {
		respondServiceError(c, err)
		return
	}

	ec.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "delete", "recurring_expense", id, nil, nil, c.ClientIP())
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

func (ec *ExpenseController) ListExpenses(c *gin.Context) {
	var month *time.Time
	if raw := c.Query("month"); raw != "" {
		if t, err := time.Parse("2006-01", raw); err == nil {
			month = &t
		}
	}

	list, err := ec.Expenses.ListExpenses(middleware.OrgID(c), month)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ec *ExpenseController) Generate(c *gin.Context) {
	created, err := ec.Expenses.GenerateMonthly(middleware.OrgID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"created": created})
}
