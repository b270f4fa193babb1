package controller

import (
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttendanceController struct {
	AttendanceService *service.AttendanceService
}

func NewAttendanceController(attendanceService *service.AttendanceService) *AttendanceController {
	return &AttendanceController{AttendanceService: attendanceService}
}

// Record godoc
// @Summary Record one attendance entry
// @Description Re-marking the same student, course and date replaces the earlier status
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.RecordAttendanceRequest true "attendance entry"
// @Success 200 {object} util.Response{data=model.Attendance}
// @Failure 403 {object} util.Response
// @Router /api/attendance [post]
func (c *AttendanceController) Record(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.RecordAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.AttendanceService.RecordStudent(actor, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// RecordBulk godoc
// @Summary Record a day's attendance sheet
// @Description Invalid entries are skipped and itemized, not fatal to the batch
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.BulkAttendanceRequest true "attendance sheet"
// @Success 200 {object} util.Response{data=service.BulkResult}
// @Router /api/attendance/bulk [post]
func (c *AttendanceController) RecordBulk(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.BulkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AttendanceService.RecordBulk(actor, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// RecordTrainer godoc
// @Summary Record trainer attendance (admin)
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.RecordTrainerAttendanceRequest true "trainer attendance entry"
// @Success 200 {object} util.Response{data=model.TrainerAttendance}
// @Router /api/admin/attendance/trainer [post]
func (c *AttendanceController) RecordTrainer(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.RecordTrainerAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.AttendanceService.RecordTrainer(actor, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// List godoc
// @Summary List attendance records
// @Description Scoped to the caller: admins all, instructors their courses, students their own rows
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param course_id query int false "course filter"
// @Param student_id query int false "student filter (staff only)"
// @Param from query string false "start date YYYY-MM-DD"
// @Param to query string false "end date YYYY-MM-DD"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/attendance [get]
func (c *AttendanceController) List(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	page, limit := parsePagination(ctx)
	courseID, _ := strconv.ParseUint(ctx.Query("course_id"), 10, 32)
	studentID, _ := strconv.ParseUint(ctx.Query("student_id"), 10, 32)

	records, total, err := c.AttendanceService.List(actor, service.AttendanceListQuery{
		CourseID:  uint(courseID),
		StudentID: uint(studentID),
		From:      ctx.Query("from"),
		To:        ctx.Query("to"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: records, Total: total, Page: page, Limit: limit})
}
