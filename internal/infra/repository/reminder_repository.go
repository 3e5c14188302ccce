package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
)

const (
	entryKeyPrefix     = "reminder:entry:"
	userIndexKeyPrefix = "reminder:user:"
	dueKey             = "reminder:due"
	dispatchedPrefix   = "reminder:dispatched:"

	// entryRetention keeps an entry readable for a while after its fire time in
	// case the dispatcher is behind.
	entryRetention = 24 * time.Hour

	// dispatchedGrace keeps a dispatched marker a little past its fire time so a
	// cancel racing the queue still finds the task name.
	dispatchedGrace = time.Minute
)

type reminderRecord struct {
	UserID      string    `json:"user_id"`
	ID          int32     `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	FireAt      time.Time `json:"fire_at"`
	Kind        string    `json:"kind"`
	DiscountID  int64     `json:"discount_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// dispatchScript removes a due reminder only while it is still scheduled for the
// fire time the dispatcher saw. The entry moves to a dispatched marker that lives
// until shortly after the fire time.
var dispatchScript = redis.NewScript(`
local score = redis.call('ZSCORE', KEYS[1], ARGV[1])
if score and tonumber(score) == tonumber(ARGV[2]) then
	local entry = redis.call('GET', KEYS[2])
	if entry then
		redis.call('SET', KEYS[4], entry, 'PX', ARGV[4])
	end
	redis.call('ZREM', KEYS[1], ARGV[1])
	redis.call('DEL', KEYS[2])
	redis.call('SREM', KEYS[3], ARGV[3])
	return 1
end
return 0
`)

// ReminderRepository is the Redis backed platform scheduler. Each user owns an
// id space; a shared sorted set orders every reminder by fire time for dispatch.
type ReminderRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewReminderRepository(client *redis.Client) *ReminderRepository {
	return &ReminderRepository{
		client: client,
		now:    time.Now,
	}
}

func entryKey(userID string, id int32) string {
	return entryKeyPrefix + userID + ":" + strconv.FormatInt(int64(id), 10)
}

func dispatchedKey(userID string, id int32) string {
	return dispatchedPrefix + userID + ":" + strconv.FormatInt(int64(id), 10)
}

func userIndexKey(userID string) string {
	return userIndexKeyPrefix + userID
}

func dueMember(userID string, id int32) string {
	return userID + "|" + strconv.FormatInt(int64(id), 10)
}

func parseDueMember(member string) (string, int32, error) {
	idx := strings.LastIndex(member, "|")
	if idx <= 0 || idx == len(member)-1 {
		return "", 0, ErrInvalidDueMember
	}
	id, err := strconv.ParseInt(member[idx+1:], 10, 32)
	if err != nil {
		return "", 0, ErrInvalidDueMember
	}
	return member[:idx], int32(id), nil
}

func (r *ReminderRepository) Available() bool {
	return r.client != nil
}

func (r *ReminderRepository) Cancel(ctx context.Context, userID string, ids []int32) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, 0, len(ids)*2)
	members := make([]any, 0, len(ids))
	idMembers := make([]any, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, entryKey(userID, id), dispatchedKey(userID, id))
		members = append(members, dueMember(userID, id))
		idMembers = append(idMembers, id)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.ZRem(ctx, dueKey, members...)
	pipe.SRem(ctx, userIndexKey(userID), idMembers...)

	_, err := pipe.Exec(ctx)
	return err
}

func (r *ReminderRepository) Schedule(ctx context.Context, userID string, entries []domain.ReminderInstant) error {
	if len(entries) == 0 {
		return nil
	}

	now := r.now()
	pipe := r.client.TxPipeline()

	for _, e := range entries {
		record := reminderRecord{
			UserID:      userID,
			ID:          e.ID,
			Title:       e.Title,
			Body:        e.Body,
			FireAt:      e.FireAt,
			Kind:        e.Kind.String(),
			DiscountID:  int64(e.Payload.DiscountID),
			ScheduledAt: now,
		}

		data, err := json.Marshal(record)
		if err != nil {
			return ErrInvalidReminderData
		}

		ttl := e.FireAt.Sub(now) + entryRetention
		if ttl < entryRetention {
			ttl = entryRetention
		}

		pipe.Set(ctx, entryKey(userID, e.ID), data, ttl)
		pipe.ZAdd(ctx, dueKey, redis.Z{
			Score:  float64(e.FireAt.Unix()),
			Member: dueMember(userID, e.ID),
		})
		pipe.SAdd(ctx, userIndexKey(userID), e.ID)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// ListScheduled returns the user's pending reminders ordered by fire time.
func (r *ReminderRepository) ListScheduled(ctx context.Context, userID string) ([]domain.ScheduledReminder, error) {
	members, err := r.client.SMembers(ctx, userIndexKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []domain.ScheduledReminder{}, nil
	}

	keys := make([]string, 0, len(members))
	indexed := make([]string, 0, len(members))
	var stale []any
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 32)
		if err != nil {
			stale = append(stale, m)
			continue
		}
		keys = append(keys, entryKey(userID, int32(id)))
		indexed = append(indexed, m)
	}

	reminders, missing, err := r.loadEntries(ctx, keys)
	if err != nil {
		return nil, err
	}

	// entries expire on their own; drop their ids from the index as they are found
	for _, i := range missing {
		stale = append(stale, indexed[i])
	}
	if len(stale) > 0 {
		if err := r.client.SRem(ctx, userIndexKey(userID), stale...).Err(); err != nil {
			return nil, err
		}
	}

	sort.Slice(reminders, func(i, j int) bool {
		a, b := reminders[i].Reminder, reminders[j].Reminder
		if a.FireAt.Equal(b.FireAt) {
			return a.ID < b.ID
		}
		return a.FireAt.Before(b.FireAt)
	})

	return reminders, nil
}

// GetScheduled returns one pending reminder.
func (r *ReminderRepository) GetScheduled(ctx context.Context, userID string, id int32) (*domain.ScheduledReminder, error) {
	data, err := r.client.Get(ctx, entryKey(userID, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrReminderNotFound
		}
		return nil, err
	}

	reminder, err := decodeRecord(data)
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

// FetchDue returns up to limit reminders whose fire time is at or before until.
// Members whose entry has already expired are dropped from the due set.
func (r *ReminderRepository) FetchDue(ctx context.Context, until time.Time, limit int) ([]domain.ScheduledReminder, error) {
	members, err := r.client.ZRangeByScore(ctx, dueKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(until.Unix(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []domain.ScheduledReminder{}, nil
	}

	keys := make([]string, 0, len(members))
	valid := make([]string, 0, len(members))
	var orphans []any
	for _, m := range members {
		userID, id, err := parseDueMember(m)
		if err != nil {
			orphans = append(orphans, m)
			continue
		}
		keys = append(keys, entryKey(userID, id))
		valid = append(valid, m)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	reminders := make([]domain.ScheduledReminder, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			orphans = append(orphans, valid[i])
			continue
		}
		reminder, err := decodeRecord([]byte(s))
		if err != nil {
			orphans = append(orphans, valid[i])
			continue
		}
		reminders = append(reminders, reminder)
	}

	if len(orphans) > 0 {
		if err := r.client.ZRem(ctx, dueKey, orphans...).Err(); err != nil {
			return nil, err
		}
	}

	return reminders, nil
}

// MarkDispatched removes reminders handed to the task queue and leaves a
// dispatched marker for each until its fire time has passed. A reminder that was
// rescheduled to another fire time in the meantime is left alone; the returned
// count covers removed reminders only.
func (r *ReminderRepository) MarkDispatched(ctx context.Context, reminders []domain.ScheduledReminder) (int, error) {
	now := r.now()
	removed := 0
	for _, sr := range reminders {
		keys := []string{
			dueKey,
			entryKey(sr.UserID, sr.Reminder.ID),
			userIndexKey(sr.UserID),
		}
		markerTTL := sr.Reminder.FireAt.Sub(now) + dispatchedGrace
		if markerTTL < time.Second {
			markerTTL = time.Second
		}
		res, err := dispatchScript.Run(ctx, r.client, keys,
			dueMember(sr.UserID, sr.Reminder.ID),
			sr.Reminder.FireAt.Unix(),
			sr.Reminder.ID,
			markerTTL.Milliseconds(),
		).Int()
		if err != nil {
			return removed, err
		}
		removed += res
	}
	return removed, nil
}

// ListDispatched returns the reminders among ids that were handed to the task
// queue and have not fired yet.
func (r *ReminderRepository) ListDispatched(ctx context.Context, userID string, ids []int32) ([]domain.ScheduledReminder, error) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, dispatchedKey(userID, id))
	}

	reminders, _, err := r.loadEntries(ctx, keys)
	return reminders, err
}

// loadEntries reads the given keys and also reports the positions of keys that
// no longer exist.
func (r *ReminderRepository) loadEntries(ctx context.Context, keys []string) ([]domain.ScheduledReminder, []int, error) {
	if len(keys) == 0 {
		return []domain.ScheduledReminder{}, nil, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, err
	}

	reminders := make([]domain.ScheduledReminder, 0, len(values))
	var missing []int
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			missing = append(missing, i)
			continue
		}
		reminder, err := decodeRecord([]byte(s))
		if err != nil {
			return nil, nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, missing, nil
}

func decodeRecord(data []byte) (domain.ScheduledReminder, error) {
	var record reminderRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.ScheduledReminder{}, ErrInvalidReminderData
	}

	return domain.ScheduledReminder{
		UserID: record.UserID,
		Reminder: domain.ReminderInstant{
			ID:      record.ID,
			Title:   record.Title,
			Body:    record.Body,
			FireAt:  record.FireAt,
			Kind:    domain.ReminderKind(record.Kind),
			Payload: domain.ReminderPayload{DiscountID: domain.ItemID(record.DiscountID)},
		},
		ScheduledAt: record.ScheduledAt,
	}, nil
}
