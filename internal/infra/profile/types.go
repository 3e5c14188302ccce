package profile

import "github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"

type DiscountsResponse struct {
	Items []domain.DiscountItem `json:"items"`
	Count int                   `json:"count"`
}

type TimePreferenceResponse struct {
	Hour string `json:"hour"`
	Min  string `json:"min"`
}
