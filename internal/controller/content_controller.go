package controller

import (
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// UploadMaterial godoc
// @Summary Upload a course material
// @Tags content
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param course_id formData int true "course id"
// @Param module_id formData int false "module id"
// @Param title formData string true "title"
// @Param description formData string false "description"
// @Param file formData file true "document"
// @Success 201 {object} util.Response{data=model.Material}
// @Router /api/instructor/materials [post]
func (c *ContentController) UploadMaterial(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.UploadMaterialRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	material, err := c.ContentService.UploadMaterial(ctx.Request.Context(), actor, req, fileHeader)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, material)
}

// UploadVideo godoc
// @Summary Upload a course video
// @Description Probes duration and dimensions and grabs a thumbnail frame
// @Tags content
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param course_id formData int true "course id"
// @Param module_id formData int false "module id"
// @Param title formData string true "title"
// @Param description formData string false "description"
// @Param file formData file true "video"
// @Success 201 {object} util.Response{data=model.Video}
// @Router /api/instructor/videos [post]
func (c *ContentController) UploadVideo(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.UploadVideoRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	video, err := c.ContentService.UploadVideo(ctx.Request.Context(), actor, req, fileHeader)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, video)
}

// AddExternalVideo godoc
// @Summary Link an externally hosted video
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ExternalVideoRequest true "video link"
// @Success 201 {object} util.Response{data=model.Video}
// @Router /api/instructor/videos/external [post]
func (c *ContentController) AddExternalVideo(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.ExternalVideoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	video, err := c.ContentService.AddExternalVideo(actor, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, video)
}

// ListMaterials godoc
// @Summary Materials of one course
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param search query string false "title search"
// @Param type query string false "material type"
// @Success 200 {object} util.Response{data=[]model.Material}
// @Router /api/courses/{id}/materials [get]
func (c *ContentController) ListMaterials(ctx *gin.Context) {
	courseID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	filter := repository.ContentFilter{
		Search: ctx.Query("search"),
		Type:   ctx.Query("type"),
	}
	materials, err := c.ContentService.ListMaterials(actor, courseID, filter)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, materials)
}

// ListVideos godoc
// @Summary Videos of one course
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param search query string false "title search"
// @Param type query string false "video type"
// @Success 200 {object} util.Response{data=[]model.Video}
// @Router /api/courses/{id}/videos [get]
func (c *ContentController) ListVideos(ctx *gin.Context) {
	courseID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	filter := repository.ContentFilter{
		Search: ctx.Query("search"),
		Type:   ctx.Query("type"),
	}
	videos, err := c.ContentService.ListVideos(actor, courseID, filter)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, videos)
}

// ListMyMaterials godoc
// @Summary Materials across the caller's courses
// @Tags content
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Material}
// @Router /api/materials [get]
func (c *ContentController) ListMyMaterials(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	materials, err := c.ContentService.ListMyMaterials(actor)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, materials)
}

// ListMyVideos godoc
// @Summary Videos across the caller's courses
// @Tags content
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Video}
// @Router /api/videos [get]
func (c *ContentController) ListMyVideos(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	videos, err := c.ContentService.ListMyVideos(actor)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, videos)
}

// Download godoc
// @Summary Download a material
// @Description Counts the download and redirects to the object URL
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param id path int true "material id"
// @Success 200 {object} util.Response{data=object}
// @Router /api/materials/{id}/download [get]
func (c *ContentController) Download(ctx *gin.Context) {
	materialID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	url, err := c.ContentService.Download(actor, materialID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// Watch godoc
// @Summary Watch a video
// @Description Counts the view and returns the playable source
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param id path int true "video id"
// @Success 200 {object} util.Response{data=object}
// @Router /api/videos/{id}/watch [get]
func (c *ContentController) Watch(ctx *gin.Context) {
	videoID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	url, err := c.ContentService.Watch(actor, videoID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// UpdateMaterial godoc
// @Summary Update a material's metadata
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "material id"
// @Param body body service.UpdateContentRequest true "fields to change"
// @Success 200 {object} util.Response{data=model.Material}
// @Router /api/instructor/materials/{id} [put]
func (c *ContentController) UpdateMaterial(ctx *gin.Context) {
	materialID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	material, err := c.ContentService.UpdateMaterial(actor, materialID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, material)
}

// UpdateVideo godoc
// @Summary Update a video's metadata
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "video id"
// @Param body body service.UpdateContentRequest true "fields to change"
// @Success 200 {object} util.Response{data=model.Video}
// @Router /api/instructor/videos/{id} [put]
func (c *ContentController) UpdateVideo(ctx *gin.Context) {
	videoID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	video, err := c.ContentService.UpdateVideo(actor, videoID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, video)
}

// DeleteMaterial godoc
// @Summary Remove a material
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param id path int true "material id"
// @Success 200 {object} util.Response
// @Router /api/instructor/materials/{id} [delete]
func (c *ContentController) DeleteMaterial(ctx *gin.Context) {
	materialID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ContentService.DeleteMaterial(ctx.Request.Context(), actor, materialID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteVideo godoc
// @Summary Remove a video
// @Tags content
// @Produce json
// @Security BearerAuth
// @Param id path int true "video id"
// @Success 200 {object} util.Response
// @Router /api/instructor/videos/{id} [delete]
func (c *ContentController) DeleteVideo(ctx *gin.Context) {
	videoID, ok := parseUintParam(ctx, "id")
	if !ok {
		return
	}
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ContentService.DeleteVideo(ctx.Request.Context(), actor, videoID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
