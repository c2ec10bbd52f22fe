package db

import (
	"errors"
	"strings"

	"github.com/terraincognita07/budgetplanner/internal/models"
	"gorm.io/gorm"
)

var ErrDuplicateEmail = errors.New("email already exists")

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) CountUsers() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByNormalizedEmail(email string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("lower(trim(email)) = ?", normalizeLookupEmail(email)).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Create stores the user with a lowercased email. A clash on the
// case-insensitive email index is reported as ErrDuplicateEmail.
func (repo *UserRepository) Create(user *models.User) error {
	user.Email = normalizeLookupEmail(user.Email)
	if err := repo.database.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (repo *UserRepository) UpdatePassword(userID uint, passwordHash string) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", passwordHash).Error
}

func (repo *UserRepository) UpdateStatus(userID uint, isActive bool, isSuperuser bool) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"is_active":    isActive,
		"is_superuser": isSuperuser,
	}).Error
}

func normalizeLookupEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
