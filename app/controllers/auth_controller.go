// Package controllers translates HTTP requests into service calls and
// service results into envelope responses. No business logic lives here.
package controllers

import (
	"github.com/rishavanand/bazario/app/resources"
	"github.com/rishavanand/bazario/app/services"
	"github.com/rishavanand/bazario/pkg/ctx"
	"github.com/rishavanand/bazario/pkg/middleware"
	"github.com/rishavanand/bazario/pkg/resource"
	"github.com/rishavanand/bazario/pkg/response"
)

// AuthController serves registration, login and profile endpoints.
type AuthController struct {
	service *services.AuthService
}

// NewAuthController builds the controller with the default service.
func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

// Register handles POST /api/auth/register.
func (c *AuthController) Register(cx *ctx.Context) {
	var in services.RegisterInput
	if !cx.BindJSON(&in) {
		return
	}

	user, err := c.service.Register(cx.Context(), in)
	if err != nil {
		cx.Error(err)
		return
	}

	cx.Created(response.M{
		"message": "Registered successfully, please login",
		"user":    resource.Item(resources.User, *user),
	})
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(cx *ctx.Context) {
	var in services.LoginInput
	if !cx.BindJSON(&in) {
		return
	}

	token, user, err := c.service.Login(cx.Context(), in)
	if err != nil {
		cx.Error(err)
		return
	}

	cx.Success(response.M{
		"message": "Logged in successfully",
		"token":   token,
		"user":    resource.Item(resources.User, *user),
	})
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (c *AuthController) ForgotPassword(cx *ctx.Context) {
	var in services.ForgotPasswordInput
	if !cx.BindJSON(&in) {
		return
	}

	if err := c.service.ForgotPassword(cx.Context(), in); err != nil {
		cx.Error(err)
		return
	}
	cx.Message("Password reset successfully")
}

// UpdateProfile handles PUT /api/auth/profile.
func (c *AuthController) UpdateProfile(cx *ctx.Context) {
	var in services.ProfileInput
	if !cx.BindJSON(&in) {
		return
	}

	userID := middleware.UserIDFromCtx(cx.Context())
	user, err := c.service.UpdateProfile(cx.Context(), userID, in)
	if err != nil {
		cx.Error(err)
		return
	}

	cx.Success(response.M{
		"message": "Profile updated successfully",
		"user":    resource.Item(resources.User, *user),
	})
}

// UserAuth handles GET /api/auth/user-auth — a probe behind the auth gate.
func (c *AuthController) UserAuth(cx *ctx.Context) {
	cx.Success(response.M{"ok": true})
}

// AdminAuth handles GET /api/auth/admin-auth — a probe behind the admin gate.
func (c *AuthController) AdminAuth(cx *ctx.Context) {
	cx.Success(response.M{"ok": true})
}
