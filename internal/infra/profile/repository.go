package profile

import (
	"context"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
)

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=profile

// Repository reads the user's persisted discount items and time preference.
type Repository interface {
	GetDiscounts(ctx context.Context, userID string) ([]domain.DiscountItem, error)
	GetTimePreference(ctx context.Context, userID string) (domain.TimePreference, error)
}
