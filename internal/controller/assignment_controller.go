package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
}

func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService}
}

// Create godoc
// @Summary Create an assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.AssignmentRequest true "assignment details"
// @Success 201 {object} util.Response{data=model.Assignment}
// @Router /api/instructor/assignments [post]
func (c *AssignmentController) Create(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.AssignmentService.Create(actor, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, assignment)
}

// Update godoc
// @Summary Update an assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "assignment id"
// @Param body body service.AssignmentRequest true "assignment details"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Router /api/instructor/assignments/{id} [put]
func (c *AssignmentController) Update(ctx *gin.Context) {
	assignmentID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.AssignmentService.Update(actor, assignmentID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// Delete godoc
// @Summary Remove an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "assignment id"
// @Success 200 {object} util.Response
// @Router /api/instructor/assignments/{id} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	assignmentID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AssignmentService.Delete(actor, assignmentID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListForCourse godoc
// @Summary Assignments of one course
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response{data=[]model.Assignment}
// @Router /api/courses/{id}/assignments [get]
func (c *AssignmentController) ListForCourse(ctx *gin.Context) {
	courseID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	assignments, err := c.AssignmentService.ListForCourse(actor, courseID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// Submit godoc
// @Summary Submit work for an assignment
// @Description Resubmitting before grading replaces the earlier submission
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "assignment id"
// @Param body body service.SubmitAssignmentRequest true "submission"
// @Success 201 {object} util.Response{data=model.AssignmentSubmission}
// @Router /api/student/assignments/{id}/submit [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	assignmentID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.AssignmentService.Submit(actor, assignmentID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, submission)
}

// ListSubmissions godoc
// @Summary Submissions for an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "assignment id"
// @Success 200 {object} util.Response{data=[]model.AssignmentSubmission}
// @Router /api/instructor/assignments/{id}/submissions [get]
func (c *AssignmentController) ListSubmissions(ctx *gin.Context) {
	assignmentID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	submissions, err := c.AssignmentService.ListSubmissions(actor, assignmentID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, submissions)
}

// ListMySubmissions godoc
// @Summary My submissions
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.AssignmentSubmission}
// @Router /api/student/submissions [get]
func (c *AssignmentController) ListMySubmissions(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	submissions, err := c.AssignmentService.ListMySubmissions(actor)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, submissions)
}

// Grade godoc
// @Summary Grade a submission
// @Description The grade is clamped to the assignment's maximum points
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "submission id"
// @Param body body service.GradeSubmissionRequest true "grade and feedback"
// @Success 200 {object} util.Response{data=model.AssignmentSubmission}
// @Router /api/instructor/submissions/{id}/grade [put]
func (c *AssignmentController) Grade(ctx *gin.Context) {
	submissionID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.GradeSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.AssignmentService.Grade(actor, submissionID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}
