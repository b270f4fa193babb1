package controller

import (
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CatalogController serves course browsing for every role, plus the public
// published catalog.
type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

func parsePagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// ListCourses godoc
// @Summary Browse published courses
// @Tags catalog
// @Produce json
// @Param search query string false "title, code or description"
// @Param category_id query int false "category filter"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (c *CatalogController) ListCourses(ctx *gin.Context) {
	page, limit := parsePagination(ctx)
	categoryID, _ := strconv.ParseUint(ctx.Query("category_id"), 10, 32)

	courses, total, err := c.CatalogService.ListPublished(service.CatalogQuery{
		Search:     ctx.Query("search"),
		CategoryID: uint(categoryID),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// ListCategories godoc
// @Summary List course categories
// @Tags catalog
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Category}
// @Router /api/categories [get]
func (c *CatalogController) ListCategories(ctx *gin.Context) {
	categories, err := c.CatalogService.ListCategories()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// GetCourse godoc
// @Summary Course detail with module outline
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response{data=service.CourseDetail}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CatalogController) GetCourse(ctx *gin.Context) {
	courseID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}

	// The catalog detail view works both authenticated and anonymous.
	actor, _ := util.GetActorFromContext(ctx)

	detail, err := c.CatalogService.GetCourse(actor, courseID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// GetLesson godoc
// @Summary Lesson playback view
// @Description One lesson plus its neighbors in course order; requires course access
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param lessonId path int true "lesson id"
// @Success 200 {object} util.Response{data=service.LessonView}
// @Failure 403 {object} util.Response
// @Router /api/courses/{id}/lessons/{lessonId} [get]
func (c *CatalogController) GetLesson(ctx *gin.Context) {
	courseID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	lessonID, ok := parseUintParam(ctx, "lessonId")
	if !ok {
		return
	}

	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.CatalogService.GetLesson(actor, courseID, lessonID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
