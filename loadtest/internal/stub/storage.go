package stub

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
)

const dateLayout = "2006-01-02"

// itemIDEpoch keeps generated ids in the millisecond timestamp range the app
// assigns to new items.
var itemIDEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

type ProfileStorage struct {
	mu          sync.RWMutex
	items       map[string]map[domain.ItemID]domain.DiscountItem // userID -> itemID -> item
	preferences map[string]domain.TimePreference
}

func NewProfileStorage() *ProfileStorage {
	return &ProfileStorage{
		items:       make(map[string]map[domain.ItemID]domain.DiscountItem),
		preferences: make(map[string]domain.TimePreference),
	}
}

func (s *ProfileStorage) Reset(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, userID)
	delete(s.preferences, userID)
}

func (s *ProfileStorage) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]map[domain.ItemID]domain.DiscountItem)
	s.preferences = make(map[string]domain.TimePreference)
}

// PutItems stores items, replacing any with the same id.
func (s *ProfileStorage) PutItems(userID string, items []domain.DiscountItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.items[userID] == nil {
		s.items[userID] = make(map[domain.ItemID]domain.DiscountItem)
	}
	for _, item := range items {
		s.items[userID][item.ID] = item
	}
}

// Items returns the user's items ordered by id and whether the user is known.
func (s *ProfileStorage) Items(userID string) ([]domain.DiscountItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.items[userID]
	if !ok {
		return nil, false
	}

	items := make([]domain.DiscountItem, 0, len(stored))
	for _, item := range stored {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items, true
}

func (s *ProfileStorage) SetTimePreference(userID string, pref domain.TimePreference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences[userID] = pref
}

func (s *ProfileStorage) TimePreference(userID string) (domain.TimePreference, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pref, ok := s.preferences[userID]
	return pref, ok
}

// GenerateItems builds spec.Count items with expiry dates spread evenly across
// the range. The same user and spec always yield the same items.
func GenerateItems(userID string, spec GenerateSpec) ([]domain.DiscountItem, error) {
	if spec.Count <= 0 {
		return []domain.DiscountItem{}, nil
	}

	from, err := time.Parse(dateLayout, spec.ExpiryFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry_from: %s", spec.ExpiryFrom)
	}
	to, err := time.Parse(dateLayout, spec.ExpiryTo)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry_to: %s", spec.ExpiryTo)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("expiry_to %s is before expiry_from %s", spec.ExpiryTo, spec.ExpiryFrom)
	}

	days := int(to.Sub(from).Hours()/24) + 1

	items := make([]domain.DiscountItem, 0, spec.Count)
	for i := 0; i < spec.Count; i++ {
		expiry := from.AddDate(0, 0, i*days/spec.Count)

		status := domain.ItemStatusActive
		if spec.UsedEvery > 0 && (i+1)%spec.UsedEvery == 0 {
			status = domain.ItemStatusUsed
		}

		item := domain.DiscountItem{
			ID:             generateItemID(userID, i),
			Title:          fmt.Sprintf("Discount #%d", i+1),
			ExpiryDate:     expiry.Format(dateLayout),
			Status:         status,
			NotifyEnabled:  true,
			NotifyWeekly:   spec.NotifyWeekly,
			NotifyLastWeek: spec.NotifyLastWeek,
		}
		if spec.WithStartDate {
			item.StartDate = expiry.AddDate(0, 0, -14).Format(dateLayout)
		}

		items = append(items, item)
	}

	return items, nil
}

func generateItemID(userID string, index int) domain.ItemID {
	input := fmt.Sprintf("%s-%d", userID, index)
	hash := sha256.Sum256([]byte(input))
	// about a year of milliseconds past the epoch
	offset := binary.BigEndian.Uint64(hash[:8]) % (366 * 24 * 60 * 60 * 1000)
	return domain.ItemID(itemIDEpoch + int64(offset))
}
