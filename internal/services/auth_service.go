package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/budgetplanner/internal/db"
	"github.com/terraincognita07/budgetplanner/internal/identity"
	"github.com/terraincognita07/budgetplanner/internal/models"
	"github.com/terraincognita07/budgetplanner/internal/security"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUserRepository interface {
	FindByNormalizedEmail(email string) (models.User, error)
	Create(user *models.User) error
	UpdatePassword(userID uint, passwordHash string) error
	UpdateStatus(userID uint, isActive bool, isSuperuser bool) error
	CountUsers() (int64, error)
}

type AuthService struct {
	users      AuthUserRepository
	tokens     *TokenCodec
	hashCost   int
	randomText func(length int) (string, error)
}

func NewAuthService(users AuthUserRepository, tokens *TokenCodec) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		hashCost:   bcrypt.DefaultCost,
		randomText: security.PlaceholderSecret,
	}
}

// WithHashCost sets the bcrypt cost used for new password hashes. Values
// outside bcrypt's accepted range are ignored.
func (service *AuthService) WithHashCost(cost int) *AuthService {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		service.hashCost = cost
	}
	return service
}

// Register creates an active, non-superuser account.
func (service *AuthService) Register(email string, password string) (models.User, error) {
	normalizedEmail, password, err := NormalizeCredentialsInput(email, password)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	if _, err := service.users.FindByNormalizedEmail(normalizedEmail); err == nil {
		return models.User{}, ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("lookup user: %w", err)
	}

	passwordHash, err := service.hashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        normalizedEmail,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	if err := service.users.Create(&user); err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			return models.User{}, ErrEmailAlreadyRegistered
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login checks the password and issues a credential. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (service *AuthService) Login(email string, password string) (Credential, error) {
	normalizedEmail := NormalizeAuthEmail(email)
	if normalizedEmail == "" || password == "" {
		return Credential{}, ErrInvalidCredentials
	}

	user, err := service.users.FindByNormalizedEmail(normalizedEmail)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Credential{}, ErrInvalidCredentials
	}
	if err != nil {
		return Credential{}, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Credential{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return Credential{}, ErrAccountDisabled
	}

	return service.tokens.Issue(user)
}

// Authenticate resolves a bearer token to an active user.
func (service *AuthService) Authenticate(rawToken string) (models.User, error) {
	claims, err := service.tokens.Parse(rawToken)
	if err != nil {
		return models.User{}, err
	}

	user, err := service.users.FindByNormalizedEmail(claims.Subject)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUnauthenticated
	}
	if err != nil {
		return models.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if claims.UserID != 0 && claims.UserID != user.ID {
		return models.User{}, ErrUnauthenticated
	}
	if !user.IsActive {
		return models.User{}, ErrUnauthenticated
	}
	return user, nil
}

// FederatedLogin finds or creates the local account for a verified external
// identity. New accounts get an unusable random password.
func (service *AuthService) FederatedLogin(ctx context.Context, external identity.ExternalIdentity) (Credential, error) {
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}

	email := NormalizeAuthEmail(external.Email)
	if email == "" {
		return Credential{}, ErrMissingEmailClaim
	}

	user, err := service.users.FindByNormalizedEmail(email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = service.createFederatedUser(email)
		if err != nil {
			return Credential{}, err
		}
	case err != nil:
		return Credential{}, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsActive {
		return Credential{}, ErrAccountDisabled
	}
	return service.tokens.Issue(user)
}

func (service *AuthService) createFederatedUser(email string) (models.User, error) {
	placeholder, err := service.randomText(48)
	if err != nil {
		return models.User{}, fmt.Errorf("generate placeholder password: %w", err)
	}
	passwordHash, err := service.hashPassword(placeholder)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
	if err := service.users.Create(&user); err != nil {
		if !errors.Is(err, db.ErrDuplicateEmail) {
			return models.User{}, fmt.Errorf("create user: %w", err)
		}
		// Lost a race with a concurrent first login for the same email.
		return service.users.FindByNormalizedEmail(email)
	}
	return user, nil
}

// ResetPassword replaces the password of an existing account.
func (service *AuthService) ResetPassword(email string, password string) (models.User, error) {
	user, err := service.findExisting(email)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	passwordHash, err := service.hashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	if err := service.users.UpdatePassword(user.ID, passwordHash); err != nil {
		return models.User{}, fmt.Errorf("update password: %w", err)
	}
	user.PasswordHash = passwordHash
	return user, nil
}

type StatusChange struct {
	IsActive    *bool
	IsSuperuser *bool
}

// SetStatus updates the active and superuser flags. Nil fields keep their value.
func (service *AuthService) SetStatus(email string, change StatusChange) (models.User, error) {
	user, err := service.findExisting(email)
	if err != nil {
		return models.User{}, err
	}
	if change.IsActive != nil {
		user.IsActive = *change.IsActive
	}
	if change.IsSuperuser != nil {
		user.IsSuperuser = *change.IsSuperuser
	}
	if err := service.users.UpdateStatus(user.ID, user.IsActive, user.IsSuperuser); err != nil {
		return models.User{}, fmt.Errorf("update status: %w", err)
	}
	return user, nil
}

func (service *AuthService) CountUsers() (int64, error) {
	return service.users.CountUsers()
}

func (service *AuthService) findExisting(email string) (models.User, error) {
	normalizedEmail := NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return models.User{}, fieldError("email", "invalid email address")
	}
	user, err := service.users.FindByNormalizedEmail(normalizedEmail)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (service *AuthService) hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrInvalidCredentialsInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
