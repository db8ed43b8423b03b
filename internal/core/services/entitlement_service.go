package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/quizreel/engagement-engine/internal/core/domain"
)

var legacyEntitlementFields = []string{
	"isPlus",
	"trialStart",
}

func entitlementKey(userID string) string {
	return fmt.Sprintf("entitlement:%s", userID)
}

// historyRetentionMonths bounds how far back monthly active-day buckets are
// kept before the retention worker drops them.
const historyRetentionMonths = 12

// RetentionQueue accepts prune jobs for asynchronous processing.
type RetentionQueue interface {
	Enqueue(userID string)
}

// EntitlementService owns the per-user entitlement ledger. Quota checks are
// check-then-increment, so every operation runs under the user's lock.
type EntitlementService struct {
	store     domain.StateStore
	clock     domain.Clock
	policy    domain.QuotaPolicy
	locks     *userLocks
	retention RetentionQueue
}

func NewEntitlementService(store domain.StateStore, clock domain.Clock, policy domain.QuotaPolicy) *EntitlementService {
	return &EntitlementService{
		store:  store,
		clock:  clock,
		policy: policy,
		locks:  newUserLocks(),
	}
}

// ConsumeQuota spends one use of a feature. A false return is quota
// exhaustion, a normal business outcome.
func (s *EntitlementService) ConsumeQuota(ctx context.Context, userID, feature string) (bool, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	state, err := s.loadEntitlementState(ctx, userID)
	if err != nil {
		return false, err
	}

	now := s.clock.Now()
	granted := state.ConsumeQuota(feature, domain.NewDayKey(now), now, s.policy)

	if granted {
		if err := s.saveEntitlementState(ctx, userID, state); err != nil {
			return false, err
		}
	}

	return granted, nil
}

// Remaining reports today's leftover allowance for one feature.
func (s *EntitlementService) Remaining(ctx context.Context, userID, feature string) (int, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	state, err := s.loadEntitlementState(ctx, userID)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	return state.Remaining(feature, domain.NewDayKey(now), now, s.policy), nil
}

// Summary returns the full ledger read model: plus flag, trial window state,
// and per-feature remaining uses.
func (s *EntitlementService) Summary(ctx context.Context, userID string) (*domain.EntitlementSummary, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	state, err := s.loadEntitlementState(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	summary := state.Summary(domain.NewDayKey(now), now, s.policy)
	return &summary, nil
}

// StartTrial opens the trial window if the user is eligible. Returns whether
// a trial actually started; calling when not eligible is a quiet no-op.
func (s *EntitlementService) StartTrial(ctx context.Context, userID string) (bool, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	state, err := s.loadEntitlementState(ctx, userID)
	if err != nil {
		return false, err
	}

	started := state.StartTrial(s.clock.Now(), s.policy.TrialDurationDays)
	if started {
		if err := s.saveEntitlementState(ctx, userID, state); err != nil {
			return false, err
		}
	}

	return started, nil
}

// GrantBonus credits extra uses of a feature for the rest of today.
func (s *EntitlementService) GrantBonus(ctx context.Context, userID, feature string, count int) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	state, err := s.loadEntitlementState(ctx, userID)
	if err != nil {
		return err
	}

	state.GrantBonus(feature, domain.Today(s.clock), count)
	return s.saveEntitlementState(ctx, userID, state)
}

// SetRetentionQueue attaches the worker that prunes aged history after new
// active days land. Optional; without it records are only pruned on demand.
func (s *EntitlementService) SetRetentionQueue(q RetentionQueue) {
	s.retention = q
}

// RecordDailyActivity counts the user as active today, at most once per day.
func (s *EntitlementService) RecordDailyActivity(ctx context.Context, userID string) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	state, err := s.loadEntitlementState(ctx, userID)
	if err != nil {
		return err
	}

	if !state.RecordDailyActivity(domain.Today(s.clock)) {
		return nil
	}
	if err := s.saveEntitlementState(ctx, userID, state); err != nil {
		return err
	}

	if s.retention != nil {
		s.retention.Enqueue(userID)
	}
	return nil
}

// PruneHistory drops history the ledger can never read again: monthly
// active-day buckets older than the retention window and stale daily
// counters. Returns whether the record changed.
func (s *EntitlementService) PruneHistory(ctx context.Context, userID string) (bool, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	state, err := s.loadEntitlementState(ctx, userID)
	if err != nil {
		return false, err
	}

	now := s.clock.Now()
	cutoff := domain.NewDayKey(now.AddDate(0, -historyRetentionMonths, 0)).MonthKey()

	if !state.PruneHistory(cutoff, domain.NewDayKey(now)) {
		return false, nil
	}
	if err := s.saveEntitlementState(ctx, userID, state); err != nil {
		return false, err
	}
	return true, nil
}

// SetPlus stores the authoritative subscription flag from the purchase
// backend.
func (s *EntitlementService) SetPlus(ctx context.Context, userID string, active bool) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	state, err := s.loadEntitlementState(ctx, userID)
	if err != nil {
		return err
	}

	state.SetPlus(active)
	return s.saveEntitlementState(ctx, userID, state)
}

// Reset removes the user's ledger record and any legacy keys.
func (s *EntitlementService) Reset(ctx context.Context, userID string) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	if err := s.store.Remove(ctx, entitlementKey(userID)); err != nil {
		return fmt.Errorf("entitlement service: reset failed: %w", err)
	}
	removeLegacyKeys(ctx, s.store, userID, legacyEntitlementFields)
	for feature := range s.policy.DailyLimits {
		removeLegacyKeys(ctx, s.store, userID, []string{"lifetime:" + feature})
	}
	return nil
}

func (s *EntitlementService) loadEntitlementState(ctx context.Context, userID string) (*domain.EntitlementState, error) {
	raw, err := s.store.Get(ctx, entitlementKey(userID))
	if errors.Is(err, domain.ErrKeyNotFound) {
		return s.migrateLegacyEntitlement(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("entitlement service: load failed: %w", err)
	}

	state := domain.NewEntitlementState()
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		log.Printf("Entitlement record corrupt for user %s, starting fresh: %v", userID, err)
		return domain.NewEntitlementState(), nil
	}
	state.Normalize()
	return state, nil
}

// migrateLegacyEntitlement lifts the fields worth carrying over from loose
// keys: the plus flag, the trial start (set once, never reset) and the
// monotonic lifetime counters. Daily counters expire with the day and are
// intentionally left behind.
func (s *EntitlementService) migrateLegacyEntitlement(ctx context.Context, userID string) (*domain.EntitlementState, error) {
	state := domain.NewEntitlementState()

	found := false
	if raw, err := s.store.Get(ctx, legacyKey(userID, "isPlus")); err == nil {
		found = true
		plus, _ := strconv.ParseBool(raw)
		state.SetPlus(plus)
	}
	if raw, err := s.store.Get(ctx, legacyKey(userID, "trialStart")); err == nil {
		found = true
		if secs, err := strconv.ParseInt(raw, 10, 64); err == nil && secs > 0 {
			started := time.Unix(secs, 0).UTC()
			state.TrialStartedAt = &started
		}
	}
	for feature := range s.policy.DailyLimits {
		if raw, err := s.store.Get(ctx, legacyKey(userID, "lifetime:"+feature)); err == nil {
			found = true
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
				if state.Lifetime == nil {
					state.Lifetime = make(map[string]int64)
				}
				state.Lifetime[feature] = n
			}
		}
	}

	if !found {
		return state, nil
	}

	if err := s.saveEntitlementState(ctx, userID, state); err != nil {
		return nil, err
	}
	removeLegacyKeys(ctx, s.store, userID, legacyEntitlementFields)
	for feature := range s.policy.DailyLimits {
		removeLegacyKeys(ctx, s.store, userID, []string{"lifetime:" + feature})
	}

	log.Printf("Migrated legacy entitlement keys for user %s", userID)
	return state, nil
}

func (s *EntitlementService) saveEntitlementState(ctx context.Context, userID string, state *domain.EntitlementState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("entitlement service: marshal failed: %w", err)
	}
	if err := s.store.Set(ctx, entitlementKey(userID), string(data)); err != nil {
		return fmt.Errorf("entitlement service: save failed: %w", err)
	}
	return nil
}
