package controllers

import (
	"net/http"
	"testing"
	"time"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthRouter(auth services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ac := NewAuthController(auth, false, zap.NewNop())
	router.POST("/signup", ac.SignUp)
	router.POST("/signin", ac.SignIn)
	router.POST("/logout", ac.Logout)
	return router
}

func TestAuthController_SignIn(t *testing.T) {
	t.Run("Success - sets the auth cookie", func(t *testing.T) {
		// Arrange
		auth := new(MockAuthService)
		user := &models.User{ID: uuid.New(), Email: "jane@example.com", Role: models.RoleUser}
		auth.On("SignIn", mock.Anything, services.SignInRequest{Email: "jane@example.com", Password: "Secret123"}).
			Return(&services.Session{Token: "signed-token", ExpiresAt: time.Now().Add(services.TokenTTL), User: user}, nil).Once()

		// Act
		recorder := performRequest(newAuthRouter(auth), http.MethodPost, "/signin?redirectTo=/my-account",
			`{"email":"jane@example.com","password":"Secret123"}`)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"token":"signed-token"`)
		assert.Contains(t, recorder.Body.String(), `"redirectTo":"/my-account"`)
		cookie := findCookie(recorder, middleware.AuthCookieName)
		require.NotNil(t, cookie)
		assert.Equal(t, "signed-token", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, int(services.TokenTTL.Seconds()), cookie.MaxAge)
		auth.AssertExpectations(t)
	})

	t.Run("Failure - invalid credentials", func(t *testing.T) {
		auth := new(MockAuthService)
		auth.On("SignIn", mock.Anything, mock.Anything).
			Return(nil, &services.ServiceError{StatusCode: http.StatusUnauthorized, Message: "Invalid email or password"}).Once()

		recorder := performRequest(newAuthRouter(auth), http.MethodPost, "/signin", `{"email":"jane@example.com","password":"nope"}`)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid email or password")
		assert.Nil(t, findCookie(recorder, middleware.AuthCookieName))
	})
}

func TestRedirectTarget(t *testing.T) {
	assert.Equal(t, "/checkout/step/review", redirectTarget("/checkout/step/review"))
	assert.Equal(t, "/", redirectTarget("//evil.example.com"))
	assert.Equal(t, "/", redirectTarget("https://evil.example.com"))
	assert.Equal(t, "/", redirectTarget(""))
}

func TestAuthController_SignUp(t *testing.T) {
	auth := new(MockAuthService)
	auth.On("SignUp", mock.Anything, mock.Anything).
		Return(nil, &services.ServiceError{StatusCode: http.StatusConflict, Message: "Email already exists"}).Once()

	recorder := performRequest(newAuthRouter(auth), http.MethodPost, "/signup",
		`{"name":"Jane","email":"jane@example.com","password":"Secret123"}`)

	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.JSONEq(t, `{"error":"Email already exists"}`, recorder.Body.String())
}

func TestAuthController_Logout(t *testing.T) {
	auth := new(MockAuthService)
	auth.On("Logout", mock.Anything, "signed-token").Return(nil).Once()

	recorder := performRequest(newAuthRouter(auth), http.MethodPost, "/logout", "",
		&http.Cookie{Name: middleware.AuthCookieName, Value: "signed-token"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	cookie := findCookie(recorder, middleware.AuthCookieName)
	require.NotNil(t, cookie)
	assert.True(t, cookie.MaxAge < 0)
	auth.AssertExpectations(t)
}
