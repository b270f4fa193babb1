package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// AdminLogin godoc
// @Summary Admin login
// @Description Authenticate a staff account by email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.AdminLoginRequest true "credentials"
// @Success 200 {object} util.Response{data=service.LoginResponse}
// @Failure 401 {object} util.Response
// @Router /api/auth/admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req service.AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AuthService.AdminLogin(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// InstructorLogin godoc
// @Summary Instructor login
// @Description Authenticate by instructor number, full name and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.InstructorLoginRequest true "credentials"
// @Success 200 {object} util.Response{data=service.LoginResponse}
// @Failure 401 {object} util.Response
// @Router /api/auth/instructor/login [post]
func (c *AuthController) InstructorLogin(ctx *gin.Context) {
	var req service.InstructorLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AuthService.InstructorLogin(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// StudentLogin godoc
// @Summary Student login
// @Description Authenticate by student number, full name and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.StudentLoginRequest true "credentials"
// @Success 200 {object} util.Response{data=service.LoginResponse}
// @Failure 401 {object} util.Response
// @Router /api/auth/student/login [post]
func (c *AuthController) StudentLogin(ctx *gin.Context) {
	var req service.StudentLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AuthService.StudentLogin(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// RegisterAdmin godoc
// @Summary Create another admin account
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.RegisterAdminRequest true "account"
// @Success 201 {object} util.Response{data=model.User}
// @Failure 409 {object} util.Response
// @Router /api/admin/users [post]
func (c *AuthController) RegisterAdmin(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.RegisterAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.RegisterAdmin(actor, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, user)
}

// Me godoc
// @Summary Current user
// @Description Resolve the caller's account and role profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.LoginResponse}
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	resp, err := c.AuthService.Me(actor)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// ChangePassword godoc
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ChangePasswordRequest true "passwords"
// @Success 200 {object} util.Response
// @Router /api/auth/password [put]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	actor, ok := util.GetActorFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req service.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ChangePassword(actor, req); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
