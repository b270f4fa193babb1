package controller

import (
	"time"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// Dashboard godoc
// @Summary Admin dashboard
// @Description Totals, recent records, category distribution and the monthly enrollment trend
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.AdminDashboard}
// @Router /api/admin/dashboard [get]
func (c *ReportController) Dashboard(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.ReportService.Dashboard(ctx.Request.Context(), actor)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// Analytics godoc
// @Summary Admin analytics
// @Description Completion rate, pending grading, top courses and estimated revenue
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Analytics}
// @Router /api/admin/analytics [get]
func (c *ReportController) Analytics(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	analytics, err := c.ReportService.AdminAnalytics(actor)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}

// DailyAttendance godoc
// @Summary Daily attendance report
// @Description Per-status counts and records for one day; defaults to today
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} util.Response{data=service.DailyAttendanceReport}
// @Router /api/admin/reports/attendance/daily [get]
func (c *ReportController) DailyAttendance(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	date := ctx.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	report, err := c.ReportService.DailyAttendance(actor, date)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// InstructorOverview godoc
// @Summary Instructor dashboard
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.InstructorDashboard}
// @Router /api/instructor/dashboard [get]
func (c *ReportController) InstructorOverview(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.ReportService.InstructorOverview(actor)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// StudentOverview godoc
// @Summary Student dashboard
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.StudentDashboard}
// @Router /api/student/dashboard [get]
func (c *ReportController) StudentOverview(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.ReportService.StudentOverview(actor)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}
