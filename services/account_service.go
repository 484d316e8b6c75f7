package services

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"storefront/models"
	"storefront/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DateOfBirthLayout = "02/01/2006"
	maxAgeYears       = 150
	recentOrdersLimit = 5
)

type AccountOverview struct {
	User         *models.User   `json:"user"`
	AddressCount int64          `json:"addressCount"`
	RecentOrders []models.Order `json:"recentOrders"`
}

type ProfileRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
	DateOfBirth string `json:"dateOfBirth"`
}

var profileMessages = map[string]string{
	"name":  "Name is required",
	"email": "Please enter a valid email address",
	"phone": "Please enter a valid phone number",
}

type AddressRequest struct {
	Street    string  `json:"street" validate:"required"`
	City      string  `json:"city" validate:"required"`
	State     string  `json:"state" validate:"required"`
	ZipCode   string  `json:"zipCode" validate:"required"`
	Country   string  `json:"country" validate:"required"`
	IsDefault bool    `json:"isDefault"`
	Label     *string `json:"label,omitempty"`
}

var addressMessages = map[string]string{
	"street":  "Street is required",
	"city":    "City is required",
	"state":   "State is required",
	"zipCode": "ZIP code is required",
	"country": "Country is required",
}

type AccountService interface {
	Overview(ctx context.Context, userID uuid.UUID) (*AccountOverview, *ServiceError)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req ProfileRequest) (*models.User, *ServiceError)
	Addresses(ctx context.Context, userID uuid.UUID) ([]models.Address, *ServiceError)
	DefaultAddress(ctx context.Context, userID uuid.UUID) (*models.Address, *ServiceError)
	CreateAddress(ctx context.Context, userID uuid.UUID, req AddressRequest) (*models.Address, *ServiceError)
	UpdateAddress(ctx context.Context, userID, id uuid.UUID, req AddressRequest) (*models.Address, *ServiceError)
	DeleteAddress(ctx context.Context, userID, id uuid.UUID) *ServiceError
	SetDefaultAddress(ctx context.Context, userID, id uuid.UUID) *ServiceError
	UpdateRole(ctx context.Context, userID uuid.UUID, role string) (*models.User, *ServiceError)
}

type accountService struct {
	users     repository.UserRepository
	addresses repository.AddressRepository
	orders    repository.OrderRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewAccountService(users repository.UserRepository, addresses repository.AddressRepository, orders repository.OrderRepository, logger *zap.Logger) AccountService {
	return &accountService{users: users, addresses: addresses, orders: orders, logger: logger, now: time.Now}
}

func (s *accountService) user(ctx context.Context, userID uuid.UUID) (*models.User, *ServiceError) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, newServiceError(http.StatusNotFound, "User not found")
		}
		s.logger.Error("Failed to fetch user", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to fetch user")
	}
	return user, nil
}

func (s *accountService) Overview(ctx context.Context, userID uuid.UUID) (*AccountOverview, *ServiceError) {
	user, serr := s.user(ctx, userID)
	if serr != nil {
		return nil, serr
	}
	count, err := s.addresses.CountByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count addresses", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to load account")
	}
	orders, _, err := s.orders.FindByUserID(ctx, userID, 1, recentOrdersLimit)
	if err != nil {
		s.logger.Error("Failed to fetch recent orders", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to load account")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return &AccountOverview{User: user, AddressCount: count, RecentOrders: orders}, nil
}

// parseDateOfBirth accepts dd/MM/yyyy dates that are not in the future and
// at most 150 years back.
func parseDateOfBirth(value string, now time.Time) (*time.Time, *ServiceError) {
	if value == "" {
		return nil, nil
	}
	dob, err := time.Parse(DateOfBirthLayout, value)
	if err != nil {
		return nil, newServiceError(http.StatusBadRequest, "Date of birth must be in dd/MM/yyyy format")
	}
	if dob.After(now) {
		return nil, newServiceError(http.StatusBadRequest, "Date of birth cannot be in the future")
	}
	if dob.Before(now.AddDate(-maxAgeYears, 0, 0)) {
		return nil, newServiceError(http.StatusBadRequest, "Please enter a valid date of birth")
	}
	return &dob, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, userID uuid.UUID, req ProfileRequest) (*models.User, *ServiceError) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if serr := validateRequest(&req, profileMessages); serr != nil {
		return nil, serr
	}
	dob, serr := parseDateOfBirth(strings.TrimSpace(req.DateOfBirth), s.now())
	if serr != nil {
		return nil, serr
	}

	taken, err := s.users.EmailTaken(ctx, req.Email, userID)
	if err != nil {
		s.logger.Error("Failed to check email", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to update profile")
	}
	if taken {
		return nil, newServiceError(http.StatusConflict, "Email is already in use")
	}

	var phone *string
	if req.Phone != "" {
		phone = &req.Phone
	}
	fields := map[string]interface{}{
		"name":          req.Name,
		"email":         req.Email,
		"phone":         phone,
		"date_of_birth": dob,
	}
	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		if isNotFound(err) {
			return nil, newServiceError(http.StatusNotFound, "User not found")
		}
		s.logger.Error("Failed to update profile", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to update profile")
	}
	return s.user(ctx, userID)
}

func (s *accountService) Addresses(ctx context.Context, userID uuid.UUID) ([]models.Address, *ServiceError) {
	addresses, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to fetch addresses", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to fetch addresses")
	}
	return addresses, nil
}

func (s *accountService) DefaultAddress(ctx context.Context, userID uuid.UUID) (*models.Address, *ServiceError) {
	address, err := s.addresses.FindDefault(ctx, userID)
	return s.addressResult(address, err)
}

func (s *accountService) addressResult(address *models.Address, err error) (*models.Address, *ServiceError) {
	if err != nil {
		if isNotFound(err) {
			return nil, newServiceError(http.StatusNotFound, "Address not found")
		}
		s.logger.Error("Failed to fetch address", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to fetch address")
	}
	return address, nil
}

func (r AddressRequest) apply(a *models.Address) {
	a.Street = strings.TrimSpace(r.Street)
	a.City = strings.TrimSpace(r.City)
	a.State = strings.TrimSpace(r.State)
	a.ZipCode = strings.TrimSpace(r.ZipCode)
	a.Country = strings.TrimSpace(r.Country)
	a.IsDefault = r.IsDefault
	a.Label = r.Label
}

// CreateAddress makes the user's first address the default.
func (s *accountService) CreateAddress(ctx context.Context, userID uuid.UUID, req AddressRequest) (*models.Address, *ServiceError) {
	if serr := validateRequest(&req, addressMessages); serr != nil {
		return nil, serr
	}
	count, err := s.addresses.CountByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count addresses", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to create address")
	}

	address := &models.Address{UserID: userID}
	req.apply(address)
	if count == 0 {
		address.IsDefault = true
	}
	if err := s.addresses.Create(ctx, address); err != nil {
		s.logger.Error("Failed to create address", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to create address")
	}
	return address, nil
}

func (s *accountService) UpdateAddress(ctx context.Context, userID, id uuid.UUID, req AddressRequest) (*models.Address, *ServiceError) {
	if serr := validateRequest(&req, addressMessages); serr != nil {
		return nil, serr
	}
	address, serr := s.addressResult(s.addresses.FindByIDAndUser(ctx, id, userID))
	if serr != nil {
		return nil, serr
	}
	req.apply(address)
	if err := s.addresses.Update(ctx, address); err != nil {
		if isNotFound(err) {
			return nil, newServiceError(http.StatusNotFound, "Address not found")
		}
		s.logger.Error("Failed to update address", zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to update address")
	}
	return address, nil
}

func (s *accountService) DeleteAddress(ctx context.Context, userID, id uuid.UUID) *ServiceError {
	if err := s.addresses.Delete(ctx, id, userID); err != nil {
		if isNotFound(err) {
			return newServiceError(http.StatusNotFound, "Address not found")
		}
		s.logger.Error("Failed to delete address", zap.Error(err))
		return newServiceError(http.StatusInternalServerError, "Failed to delete address")
	}
	return nil
}

func (s *accountService) SetDefaultAddress(ctx context.Context, userID, id uuid.UUID) *ServiceError {
	if err := s.addresses.SetDefault(ctx, id, userID); err != nil {
		if isNotFound(err) {
			return newServiceError(http.StatusNotFound, "Address not found")
		}
		s.logger.Error("Failed to set default address", zap.Error(err))
		return newServiceError(http.StatusInternalServerError, "Failed to set default address")
	}
	return nil
}

func (s *accountService) UpdateRole(ctx context.Context, userID uuid.UUID, role string) (*models.User, *ServiceError) {
	if !slices.Contains(models.Roles, role) {
		return nil, newServiceError(http.StatusBadRequest, "Invalid role")
	}
	if err := s.users.UpdateFields(ctx, userID, map[string]interface{}{"role": role}); err != nil {
		if isNotFound(err) {
			return nil, newServiceError(http.StatusNotFound, "User not found")
		}
		s.logger.Error("Failed to update role", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, newServiceError(http.StatusInternalServerError, "Failed to update role")
	}
	s.logger.Info("User role updated", zap.String("user_id", userID.String()), zap.String("role", role))
	return s.user(ctx, userID)
}
