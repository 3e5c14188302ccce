package stub

import "github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"

type DiscountsResponse struct {
	Items []domain.DiscountItem `json:"items"`
	Count int                   `json:"count"`
}

type TimePreferenceResponse struct {
	Hour string `json:"hour"`
	Min  string `json:"min"`
}

type SeedRequest struct {
	Users []SeedUser `json:"users"`
}

// SeedUser stores explicit items, generated items, or both for one user.
type SeedUser struct {
	UserID         string                 `json:"user_id"`
	Items          []domain.DiscountItem  `json:"items,omitempty"`
	Generate       *GenerateSpec          `json:"generate,omitempty"`
	TimePreference *domain.TimePreference `json:"time_preference,omitempty"`
}

// GenerateSpec spreads Count synthetic items over expiry dates from ExpiryFrom
// to ExpiryTo (YYYY-MM-DD, inclusive).
type GenerateSpec struct {
	Count          int    `json:"count"`
	ExpiryFrom     string `json:"expiry_from"`
	ExpiryTo       string `json:"expiry_to"`
	WithStartDate  bool   `json:"with_start_date"`
	NotifyWeekly   bool   `json:"notify_weekly"`
	NotifyLastWeek bool   `json:"notify_last_week"`
	UsedEvery      int    `json:"used_every"`
}
