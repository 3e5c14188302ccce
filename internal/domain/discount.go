package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ItemStatus is the lifecycle state stored on a discount item.
type ItemStatus string

const (
	ItemStatusActive ItemStatus = "active"
	ItemStatusUsed   ItemStatus = "used"
)

// DerivedStatus is the status shown to the user, combining ItemStatus with the expiry date.
type DerivedStatus string

const (
	DerivedStatusActive  DerivedStatus = "active"
	DerivedStatusUsed    DerivedStatus = "used"
	DerivedStatusExpired DerivedStatus = "expired"
)

func (s DerivedStatus) String() string {
	return string(s)
}

// ItemID identifies a discount item within one user's item set.
// The app writes it either as a JSON number or as a numeric string.
type ItemID int64

func ParseItemID(raw string) (ItemID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, ErrInvalidItemID
	}
	return ItemID(v), nil
}

func (id ItemID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id ItemID) MarshalJSON() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrInvalidItemID
		}
		parsed, err := ParseItemID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return ErrInvalidItemID
	}
	v, err := n.Int64()
	if err != nil {
		return ErrInvalidItemID
	}
	*id = ItemID(v)
	return nil
}

type DiscountItem struct {
	ID             ItemID     `json:"id"`
	Title          string     `json:"title"`
	ExpiryDate     string     `json:"expiryDate,omitempty"`
	StartDate      string     `json:"startDate,omitempty"`
	Status         ItemStatus `json:"status"`
	NotifyEnabled  bool       `json:"is_notify_enabled"`
	NotifyWeekly   bool       `json:"notify_1m_weekly"`
	NotifyLastWeek bool       `json:"notify_last_7d_daily"`
	NotifHour      *string    `json:"notif_hour,omitempty"`
	NotifMin       *string    `json:"notif_min,omitempty"`
}

func (i *DiscountItem) IsUsed() bool {
	return i.Status == ItemStatusUsed
}

func (i *DiscountItem) HasExpiryDate() bool {
	return strings.TrimSpace(i.ExpiryDate) != ""
}

func (i *DiscountItem) HasStartDate() bool {
	return strings.TrimSpace(i.StartDate) != ""
}
