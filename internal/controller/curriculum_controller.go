package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CurriculumController manages course outlines for instructors and admins.
type CurriculumController struct {
	CurriculumService *service.CurriculumService
}

func NewCurriculumController(curriculumService *service.CurriculumService) *CurriculumController {
	return &CurriculumController{CurriculumService: curriculumService}
}

// ListModules godoc
// @Summary List a course's modules with lessons
// @Tags curriculum
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response{data=[]model.CourseModule}
// @Router /api/instructor/courses/{id}/modules [get]
func (c *CurriculumController) ListModules(ctx *gin.Context) {
	courseID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	modules, err := c.CurriculumService.ListModules(actor, courseID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// CreateModule godoc
// @Summary Add a module to a course
// @Tags curriculum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param body body service.ModuleRequest true "module details"
// @Success 201 {object} util.Response{data=model.CourseModule}
// @Router /api/instructor/courses/{id}/modules [post]
func (c *CurriculumController) CreateModule(ctx *gin.Context) {
	courseID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CurriculumService.CreateModule(actor, courseID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// UpdateModule godoc
// @Summary Update a module
// @Tags curriculum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "module id"
// @Param body body service.ModuleRequest true "module details"
// @Success 200 {object} util.Response{data=model.CourseModule}
// @Router /api/instructor/modules/{id} [put]
func (c *CurriculumController) UpdateModule(ctx *gin.Context) {
	moduleID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CurriculumService.UpdateModule(actor, moduleID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// DeleteModule godoc
// @Summary Remove a module and its lessons
// @Tags curriculum
// @Produce json
// @Security BearerAuth
// @Param id path int true "module id"
// @Success 200 {object} util.Response
// @Router /api/instructor/modules/{id} [delete]
func (c *CurriculumController) DeleteModule(ctx *gin.Context) {
	moduleID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CurriculumService.DeleteModule(actor, moduleID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateLesson godoc
// @Summary Add a lesson to a module
// @Tags curriculum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "module id"
// @Param body body service.LessonRequest true "lesson details"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Router /api/instructor/modules/{id}/lessons [post]
func (c *CurriculumController) CreateLesson(ctx *gin.Context) {
	moduleID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CurriculumService.CreateLesson(actor, moduleID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags curriculum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "lesson id"
// @Param body body service.LessonRequest true "lesson details"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/instructor/lessons/{id} [put]
func (c *CurriculumController) UpdateLesson(ctx *gin.Context) {
	lessonID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CurriculumService.UpdateLesson(actor, lessonID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary Remove a lesson
// @Tags curriculum
// @Produce json
// @Security BearerAuth
// @Param id path int true "lesson id"
// @Success 200 {object} util.Response
// @Router /api/instructor/lessons/{id} [delete]
func (c *CurriculumController) DeleteLesson(ctx *gin.Context) {
	lessonID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CurriculumService.DeleteLesson(actor, lessonID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
