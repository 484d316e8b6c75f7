package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/models"
	"storefront/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthErrorKind tells the auth middleware how to answer a failed check.
type AuthErrorKind string

const (
	AuthRedirectSignin         AuthErrorKind = "REDIRECT_SIGNIN"
	AuthInvalidSession         AuthErrorKind = "INVALID_SESSION"
	AuthAccessDenied           AuthErrorKind = "ACCESS_DENIED"
	AuthInsufficientPrivileges AuthErrorKind = "INSUFFICIENT_PRIVILEGES"
	AuthUserNotFound           AuthErrorKind = "USER_NOT_FOUND"
)

type AuthError struct {
	Kind    AuthErrorKind
	Message string
}

func (e *AuthError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,strongpassword"`
}

var signUpMessages = map[string]string{
	"name":                    "Name must be between 2 and 100 characters",
	"email":                   "Please enter a valid email address",
	"password.min":            "Password must be at least 8 characters",
	"password.strongpassword": "Password must contain an uppercase letter, a lowercase letter and a number",
	"password":                "Password is required",
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var signInMessages = map[string]string{
	"email":    "Please enter a valid email address",
	"password": "Password is required",
}

type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type AuthService interface {
	SignUp(ctx context.Context, req SignUpRequest) (*models.User, *ServiceError)
	SignIn(ctx context.Context, req SignInRequest) (*Session, *ServiceError)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*models.User, *AuthError)
}

type authService struct {
	users   repository.UserRepository
	tokens  *TokenService
	revoked RevocationStore
	logger  *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens *TokenService, revoked RevocationStore, logger *zap.Logger) AuthService {
	return &authService{users: users, tokens: tokens, revoked: revoked, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) SignUp(ctx context.Context, req SignUpRequest) (*models.User, *ServiceError) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if serr := validateRequest(&req, signUpMessages); serr != nil {
		return nil, serr
	}

	_, err := s.users.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, newServiceError(http.StatusConflict, "Email already exists")
	}
	if !isNotFound(err) {
		s.logger.Error("Failed to look up email", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to create account")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, newServiceError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.String("email", req.Email), zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to create account")
	}
	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *authService) SignIn(ctx context.Context, req SignInRequest) (*Session, *ServiceError) {
	req.Email = normalizeEmail(req.Email)
	if serr := validateRequest(&req, signInMessages); serr != nil {
		return nil, serr
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if !isNotFound(err) {
			s.logger.Error("Failed to look up user", zap.Error(err))
		}
		return nil, newServiceError(http.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, newServiceError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, claims, err := s.tokens.Generate(user.ID.String(), user.Email, user.Role)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to generate token")
	}
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

// Logout revokes the token until it would have expired. Unparseable tokens
// are already unusable and are ignored.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("jti", claims.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, *AuthError) {
	if token == "" {
		return nil, &AuthError{Kind: AuthRedirectSignin, Message: "Authentication required"}
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, &AuthError{Kind: AuthInvalidSession, Message: "Session is invalid or expired"}
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("Token revocation check failed", zap.String("jti", claims.ID), zap.Error(err))
		return nil, &AuthError{Kind: AuthInvalidSession, Message: "Session could not be verified"}
	}
	if revoked {
		return nil, &AuthError{Kind: AuthInvalidSession, Message: "Session has been revoked"}
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, &AuthError{Kind: AuthInvalidSession, Message: "Session is invalid or expired"}
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if !isNotFound(err) {
			s.logger.Error("Failed to load session user", zap.String("user_id", claims.UserID), zap.Error(err))
		}
		return nil, &AuthError{Kind: AuthUserNotFound, Message: "User not found"}
	}
	return user, nil
}
