package hub

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"sensorhub/pkg/auth"
	"sensorhub/pkg/common"
	"sensorhub/pkg/models"
)

// registerUser always assigns the default non-privileged role. Whatever a
// request body claims about roles never reaches this path.
func (h *Hub) registerUser(email, password string) (*models.User, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryUser),
	)

	var existing models.User
	err := h.Db.Conn.First(&existing, "email = ?", email).Error
	if err == nil {
		return nil, fmt.Errorf("%w: user already exists", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         string(auth.RoleUser),
		CreatedAt:    time.Now(),
	}

	if err := h.Db.Conn.Create(&user).Error; err != nil {
		return nil, err
	}

	logger.Info("User registered", zap.String("user_id", user.ID), zap.String("email", user.Email))

	return &user, nil
}

// authenticateUser collapses unknown email and wrong password to the same
// outcome so login responses cannot enumerate users.
func (h *Hub) authenticateUser(email, password string) (*models.User, error) {
	var user models.User
	err := h.Db.Conn.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrUnauthenticated
	}

	return &user, nil
}

// assignRole replaces the user's role set; it never appends.
func (h *Hub) assignRole(userID string, role auth.Role) error {
	logger := common.GetLoggerWith(
		common.LoggerNameHubCore,
		zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryUser),
	)

	if _, ok := auth.ParseRole(string(role)); !ok {
		return ErrInvalidRole
	}

	var user models.User
	err := h.Db.Conn.First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	err = h.Db.Conn.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("role", string(role)).Error
	if err != nil {
		return err
	}

	logger.Info("Role assigned", zap.String("user_id", user.ID), zap.String("role", string(role)))

	return nil
}

type IUserImpl struct {
	hub *Hub
}

func (iu *IUserImpl) Register(email, password string) (*models.User, error) {
	return iu.hub.registerUser(email, password)
}

func (iu *IUserImpl) Authenticate(email, password string) (*models.User, error) {
	return iu.hub.authenticateUser(email, password)
}

func (iu *IUserImpl) AssignRole(userID string, role auth.Role) error {
	return iu.hub.assignRole(userID, role)
}

func (h *Hub) GetIUser() IUser {
	return &IUserImpl{hub: h}
}
