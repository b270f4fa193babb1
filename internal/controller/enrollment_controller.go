package controller

import (
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Idempotent: re-enrolling reports the existing enrollment untouched
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 403 {object} util.Response
// @Router /api/student/courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	courseID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(actor, courseID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, enrollment)
}

// ListMine godoc
// @Summary My enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/student/enrollments [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.EnrollmentService.ListMine(actor)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// UpdateStatus godoc
// @Summary Update enrollment status or progress
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "enrollment id"
// @Param body body service.UpdateEnrollmentRequest true "new state"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 400 {object} util.Response
// @Router /api/student/enrollments/{id} [put]
func (c *EnrollmentController) UpdateStatus(ctx *gin.Context) {
	enrollmentID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateEnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.UpdateStatus(actor, enrollmentID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

type updateProgressRequest struct {
	Progress int `json:"progress" binding:"min=0,max=100"`
}

// UpdateProgress godoc
// @Summary Update my progress in a course
// @Description Reaching 100 completes the enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param body body updateProgressRequest true "progress percentage"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 400 {object} util.Response
// @Router /api/student/courses/{id}/progress [put]
func (c *EnrollmentController) UpdateProgress(ctx *gin.Context) {
	courseID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req updateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.UpdateProgress(actor, courseID, req.Progress)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// AdminList godoc
// @Summary List enrollments (admin)
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param student_id query int false "student filter"
// @Param course_id query int false "course filter"
// @Param status query string false "status filter"
// @Param search query string false "student name or course title"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/enrollments [get]
func (c *EnrollmentController) AdminList(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	page, limit := parsePagination(ctx)
	studentID, _ := strconv.ParseUint(ctx.Query("student_id"), 10, 32)
	courseID, _ := strconv.ParseUint(ctx.Query("course_id"), 10, 32)

	enrollments, total, err := c.EnrollmentService.List(actor, repository.EnrollmentFilter{
		StudentID: uint(studentID),
		CourseID:  uint(courseID),
		Status:    model.EnrollmentStatus(ctx.Query("status")),
		Search:    ctx.Query("search"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: enrollments, Total: total, Page: page, Limit: limit})
}

type adminEnrollRequest struct {
	StudentID uint `json:"student_id" binding:"required"`
	CourseID  uint `json:"course_id" binding:"required"`
}

// AdminEnroll godoc
// @Summary Enroll a student (admin)
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body adminEnrollRequest true "student and course"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Router /api/admin/enrollments [post]
func (c *EnrollmentController) AdminEnroll(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req adminEnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.AdminEnroll(actor, req.StudentID, req.CourseID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, enrollment)
}

// AdminUpdate godoc
// @Summary Update an enrollment (admin)
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "enrollment id"
// @Param body body service.UpdateEnrollmentRequest true "new state"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/admin/enrollments/{id} [put]
func (c *EnrollmentController) AdminUpdate(ctx *gin.Context) {
	c.UpdateStatus(ctx)
}

// AdminDelete godoc
// @Summary Remove an enrollment (admin)
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "enrollment id"
// @Success 200 {object} util.Response
// @Router /api/admin/enrollments/{id} [delete]
func (c *EnrollmentController) AdminDelete(ctx *gin.Context) {
	enrollmentID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	if err := c.EnrollmentService.Delete(actor, enrollmentID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
