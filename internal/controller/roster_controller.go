package controller

import (
	"strconv"

	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// RosterController is the admin management surface for students,
// instructors, courses and categories.
type RosterController struct {
	RosterService *service.RosterService
}

func NewRosterController(rosterService *service.RosterService) *RosterController {
	return &RosterController{RosterService: rosterService}
}

// CreateStudent godoc
// @Summary Register a student (admin)
// @Description Provisions the linked login account with the default password
// @Tags roster
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateStudentRequest true "student details"
// @Success 201 {object} util.Response{data=model.Student}
// @Failure 409 {object} util.Response
// @Router /api/admin/students [post]
func (c *RosterController) CreateStudent(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, err := c.RosterService.CreateStudent(actor, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, student)
}

// ListStudents godoc
// @Summary List students (admin)
// @Tags roster
// @Produce json
// @Security BearerAuth
// @Param search query string false "id, name or email"
// @Param status query string false "active or inactive"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/students [get]
func (c *RosterController) ListStudents(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	page, limit := parsePagination(ctx)
	students, total, err := c.RosterService.ListStudents(actor, ctx.Query("search"), ctx.Query("status"), page, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: students, Total: total, Page: page, Limit: limit})
}

// GetStudent godoc
// @Summary Student detail (admin)
// @Tags roster
// @Produce json
// @Security BearerAuth
// @Param id path int true "student id"
// @Success 200 {object} util.Response{data=model.Student}
// @Router /api/admin/students/{id} [get]
func (c *RosterController) GetStudent(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	student, err := c.RosterService.GetStudent(actor, id)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, student)
}

// UpdateStudent godoc
// @Summary Update a student (admin)
// @Tags roster
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "student id"
// @Param body body service.UpdateStudentRequest true "fields to change"
// @Success 200 {object} util.Response{data=model.Student}
// @Router /api/admin/students/{id} [put]
func (c *RosterController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, err := c.RosterService.UpdateStudent(actor, id, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, student)
}

// DeleteStudent godoc
// @Summary Remove a student (admin)
// @Tags roster
// @Produce json
// @Security BearerAuth
// @Param id path int true "student id"
// @Success 200 {object} util.Response
// @Router /api/admin/students/{id} [delete]
func (c *RosterController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	if err := c.RosterService.DeleteStudent(actor, id); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateInstructor godoc
// @Summary Register an instructor (admin)
// @Tags roster
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateInstructorRequest true "instructor details"
// @Success 201 {object} util.Response{data=model.Instructor}
// @Router /api/admin/instructors [post]
func (c *RosterController) CreateInstructor(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateInstructorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	instructor, err := c.RosterService.CreateInstructor(actor, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, instructor)
}

// ListInstructors godoc
// @Summary List instructors (admin)
// @Tags roster
// @Produce json
// @Security BearerAuth
// @Param search query string false "id, name or email"
// @Param status query string false "active or inactive"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/instructors [get]
func (c *RosterController) ListInstructors(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	page, limit := parsePagination(ctx)
	instructors, total, err := c.RosterService.ListInstructors(actor, ctx.Query("search"), ctx.Query("status"), page, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: instructors, Total: total, Page: page, Limit: limit})
}

// UpdateInstructor godoc
// @Summary Update an instructor (admin)
// @Tags roster
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "instructor id"
// @Param body body service.UpdateInstructorRequest true "fields to change"
// @Success 200 {object} util.Response{data=model.Instructor}
// @Router /api/admin/instructors/{id} [put]
func (c *RosterController) UpdateInstructor(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateInstructorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	instructor, err := c.RosterService.UpdateInstructor(actor, id, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, instructor)
}

// DeleteInstructor godoc
// @Summary Remove an instructor (admin)
// @Tags roster
// @Produce json
// @Security BearerAuth
// @Param id path int true "instructor id"
// @Success 200 {object} util.Response
// @Router /api/admin/instructors/{id} [delete]
func (c *RosterController) DeleteInstructor(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	if err := c.RosterService.DeleteInstructor(actor, id); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateCourse godoc
// @Summary Create a course (admin)
// @Tags roster
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CourseRequest true "course details"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/admin/courses [post]
func (c *RosterController) CreateCourse(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.RosterService.CreateCourse(actor, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// ListCourses godoc
// @Summary List courses (admin)
// @Tags roster
// @Produce json
// @Security BearerAuth
// @Param search query string false "title, code or description"
// @Param category_id query int false "category filter"
// @Param instructor_id query int false "instructor filter"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/courses [get]
func (c *RosterController) ListCourses(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	page, limit := parsePagination(ctx)
	categoryID, _ := strconv.ParseUint(ctx.Query("category_id"), 10, 32)
	instructorID, _ := strconv.ParseUint(ctx.Query("instructor_id"), 10, 32)

	courses, total, err := c.RosterService.ListCourses(actor, repository.CourseFilter{
		Search:       ctx.Query("search"),
		CategoryID:   uint(categoryID),
		InstructorID: uint(instructorID),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// UpdateCourse godoc
// @Summary Update a course (admin)
// @Tags roster
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param body body service.CourseRequest true "course details"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/admin/courses/{id} [put]
func (c *RosterController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.RosterService.UpdateCourse(actor, id, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary Remove a course (admin)
// @Tags roster
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/admin/courses/{id} [delete]
func (c *RosterController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	if err := c.RosterService.DeleteCourse(actor, id); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateCategory godoc
// @Summary Create a category (admin)
// @Tags roster
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CategoryRequest true "category details"
// @Success 201 {object} util.Response{data=model.Category}
// @Router /api/admin/categories [post]
func (c *RosterController) CreateCategory(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category, err := c.RosterService.CreateCategory(actor, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// UpdateCategory godoc
// @Summary Update a category (admin)
// @Tags roster
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Param body body service.CategoryRequest true "category details"
// @Success 200 {object} util.Response{data=model.Category}
// @Router /api/admin/categories/{id} [put]
func (c *RosterController) UpdateCategory(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category, err := c.RosterService.UpdateCategory(actor, id, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, category)
}

// DeleteCategory godoc
// @Summary Remove a category (admin)
// @Tags roster
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} util.Response
// @Router /api/admin/categories/{id} [delete]
func (c *RosterController) DeleteCategory(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	if err := c.RosterService.DeleteCategory(actor, id); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CourseRoster godoc
// @Summary Students with access to a course
// @Tags roster
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/courses/{id}/roster [get]
func (c *RosterController) CourseRoster(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	roster, err := c.RosterService.CourseRoster(actor, id)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, roster)
}
