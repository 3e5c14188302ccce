// Package notifid maps discount items onto blocks of the platform scheduler's
// signed 32-bit notification id space.
package notifid

import (
	"sort"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
)

const (
	// ItemModulus bounds the item id before it is turned into a block.
	// Items whose ids differ by a multiple of ItemModulus share a block.
	ItemModulus = 100000
	// BlockSize is the number of ids reserved for one item.
	BlockSize = 20

	OffsetExpiry     = 0
	OffsetDailyFirst = 1
	OffsetDailyLast  = 14
	// OffsetWeeklyBase + weeksBefore gives the weekly slot, weeks 1..4.
	OffsetWeeklyBase = 14
	OffsetReserved   = 19

	MaxDailyDays   = OffsetDailyLast - OffsetDailyFirst + 1
	MaxWeeksBefore = 4

	// Legacy bulk-cancel scheme used by the delete and mark-used flows of older app builds.
	LegacyItemModulus = 20000
	LegacyBlockSize   = 100

	// TestNotificationID lies outside every block of both schemes.
	TestNotificationID int32 = ItemModulus * BlockSize
)

func normalize(itemID domain.ItemID, modulus int64) int64 {
	m := int64(itemID) % modulus
	if m < 0 {
		m += modulus
	}
	return m
}

// BaseID returns the first id of the item's block.
func BaseID(itemID domain.ItemID) int32 {
	return int32(normalize(itemID, ItemModulus) * BlockSize)
}

// ID returns the id for a slot offset within the item's block.
func ID(itemID domain.ItemID, offset int) int32 {
	return BaseID(itemID) + int32(offset)
}

func DailyOffset(daysFromNow int) int {
	return daysFromNow
}

func WeeklyOffset(weeksBefore int) int {
	return OffsetWeeklyBase + weeksBefore
}

// CancelRange lists every id an item can own.
func CancelRange(itemID domain.ItemID) []int32 {
	base := BaseID(itemID)
	ids := make([]int32, BlockSize)
	for i := range ids {
		ids[i] = base + int32(i)
	}
	return ids
}

// Contains reports whether id belongs to the item's block.
func Contains(itemID domain.ItemID, id int32) bool {
	base := BaseID(itemID)
	return id >= base && id < base+BlockSize
}

// LegacyCancelRange lists the 100 ids of the legacy bulk-cancel block.
func LegacyCancelRange(itemID domain.ItemID) []int32 {
	base := int32(normalize(itemID, LegacyItemModulus) * LegacyBlockSize)
	ids := make([]int32, LegacyBlockSize)
	for i := range ids {
		ids[i] = base + int32(i)
	}
	return ids
}

// Collision is a set of distinct items that alias onto one block.
type Collision struct {
	BaseID  int32           `json:"base_id"`
	ItemIDs []domain.ItemID `json:"item_ids"`
}

// Collisions groups the given items by block and returns every block owned by
// more than one distinct item, ordered by BaseID.
func Collisions(itemIDs []domain.ItemID) []Collision {
	byBase := make(map[int32][]domain.ItemID)
	seen := make(map[domain.ItemID]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		base := BaseID(id)
		byBase[base] = append(byBase[base], id)
	}

	collisions := make([]Collision, 0)
	for base, ids := range byBase {
		if len(ids) < 2 {
			continue
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		collisions = append(collisions, Collision{BaseID: base, ItemIDs: ids})
	}
	sort.Slice(collisions, func(i, j int) bool { return collisions[i].BaseID < collisions[j].BaseID })

	return collisions
}
