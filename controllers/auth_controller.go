package controllers

import (
	"net/http"

	"storefront/middleware"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	authService   services.AuthService
	secureCookies bool
	logger        *zap.Logger
}

func NewAuthController(authService services.AuthService, secureCookies bool, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, secureCookies: secureCookies, logger: logger}
}

func (ac *AuthController) setAuthCookie(ctx *gin.Context, token string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.AuthCookieName, token, maxAge, "/", "", ac.secureCookies, true)
}

func (ac *AuthController) SignUp(ctx *gin.Context) {
	var req services.SignUpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	user, serr := ac.authService.SignUp(ctx.Request.Context(), req)
	if serr != nil {
		respondError(ctx, serr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"user":    user,
	})
}

// SignIn sets the auth_token cookie and also returns the token for API
// clients.
func (ac *AuthController) SignIn(ctx *gin.Context) {
	var req services.SignInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	session, serr := ac.authService.SignIn(ctx.Request.Context(), req)
	if serr != nil {
		respondError(ctx, serr)
		return
	}

	ac.setAuthCookie(ctx, session.Token, int(services.TokenTTL.Seconds()))
	ctx.JSON(http.StatusOK, gin.H{
		"message":    "Logged in",
		"token":      session.Token,
		"expiresAt":  session.ExpiresAt,
		"user":       session.User,
		"redirectTo": redirectTarget(ctx.Query("redirectTo")),
	})
}

// redirectTarget only follows local paths.
func redirectTarget(target string) string {
	if len(target) > 1 && target[0] == '/' && target[1] != '/' && target[1] != '\\' {
		return target
	}
	return "/"
}

func (ac *AuthController) Logout(ctx *gin.Context) {
	if token := middleware.TokenFromRequest(ctx); token != "" {
		if err := ac.authService.Logout(ctx.Request.Context(), token); err != nil {
			ac.logger.Warn("Logout could not revoke token", zap.Error(err))
		}
	}
	ac.setAuthCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
