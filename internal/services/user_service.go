package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"notify-gateway/internal/gateway"
	"notify-gateway/internal/models"

	"gorm.io/gorm"
)

var ErrInvalidUserID = errors.New("invalid user id")

// UserService answers the gateway's user-liveness questions from the
// application's user table. Implements gateway.UserActivitySource.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// LookupUser reports whether userID still names a user and when they were
// last active. A user deleted from the table simply reports Exists=false;
// that is a fact, not an error.
func (s *UserService) LookupUser(ctx context.Context, userID string) (gateway.UserActivity, error) {
	id, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		// A user id the store cannot even parse names nobody.
		return gateway.UserActivity{}, nil
	}

	var user models.User
	err = s.db.WithContext(ctx).First(&user, uint(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return gateway.UserActivity{Exists: false}, nil
	}
	if err != nil {
		return gateway.UserActivity{}, fmt.Errorf("lookup user %s: %w", userID, err)
	}

	activity := gateway.UserActivity{Exists: true}
	if user.LastActivityAt != nil {
		activity.LastActivity = *user.LastActivityAt
	}
	return activity, nil
}
