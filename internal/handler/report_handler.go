package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cruzaro/hpcollect/internal/service"
	"github.com/cruzaro/hpcollect/internal/utils"
)

// ReportHandler handles reporting endpoints.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetDailyTotal returns the collection total for one day. Defaults to today.
func (h *ReportHandler) GetDailyTotal(c *gin.Context) {
	date := time.Now()
	if v := c.Query("date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	total, err := h.reportService.DailyTotal(c.Request.Context(), date)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Daily total retrieved successfully", gin.H{
		"date":  date.Format("2006-01-02"),
		"total": total,
	})
}

// GetHistory returns the merged activity feed for a date window. Defaults to
// the last 7 days.
func (h *ReportHandler) GetHistory(c *gin.Context) {
	end := time.Now()
	start := end.AddDate(0, 0, -7)

	if v := c.Query("from"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "from must be YYYY-MM-DD")
			return
		}
		start = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "to must be YYYY-MM-DD")
			return
		}
		// Inclusive end-of-day bound.
		end = parsed.Add(24*time.Hour - time.Second)
	}

	feed, err := h.reportService.HistoryFeed(c.Request.Context(), start, end)
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "History retrieved successfully", gin.H{
		"activities": feed,
	})
}

// GetDashboard returns the admin aggregate view.
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.reportService.Dashboard()
	if err != nil {
		fail(c, err)
		return
	}
	utils.Success(c, 200, "Dashboard retrieved successfully", dashboard)
}
