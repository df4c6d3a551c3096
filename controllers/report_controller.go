package controllers

import (
	"fmt"
	"net/http"
	"time"

	"dorm-backend/middleware"
	"dorm-backend/services"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type ReportController struct {
	Reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{Reports: reports}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func writeWorkbook(c *gin.Context, f *excelize.File, name string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to write workbook")
	}
}

func (rc *ReportController) BillingReport(c *gin.Context) {
	var month *time.Time
	if raw := c.Query("month"); raw != "" {
		t, err := time.Parse("2006-01", raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		month = &t
	}

	f, err := rc.Reports.BillingReport(middleware.OrgID(c), month)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	name := "billing.xlsx"
	if month != nil {
		name = fmt.Sprintf("billing-%s.xlsx", month.Format("2006-01"))
	}
	writeWorkbook(c, f, name)
}

func (rc *ReportController) ResidentReport(c *gin.Context) {
	f, err := rc.Reports.ResidentReport(middleware.OrgID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	writeWorkbook(c, f, "residents.xlsx")
}
