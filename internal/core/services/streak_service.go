package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/quizreel/engagement-engine/internal/core/domain"
)

// Legacy installs persisted one loose key per streak field. The migration in
// loadStreakState folds them into the versioned record and removes them.
var legacyStreakFields = []string{
	"dailyStreak",
	"correctStreak",
	"bestStreak",
	"lastPlayDay",
	"lastCorrectDay",
	"lastAnsweredDay",
	"lastResultCorrect",
}

func streakKey(userID string) string {
	return fmt.Sprintf("streak:%s", userID)
}

func legacyKey(userID, field string) string {
	return fmt.Sprintf("user:%s:%s", userID, field)
}

// StreakService owns the per-user streak record: it loads the versioned
// document from the state store, applies the pure domain transitions, and
// writes it back under a per-user lock.
type StreakService struct {
	store domain.StateStore
	clock domain.Clock
	locks *userLocks
}

func NewStreakService(store domain.StateStore, clock domain.Clock) *StreakService {
	return &StreakService{
		store: store,
		clock: clock,
		locks: newUserLocks(),
	}
}

// RegisterPlay counts today's play action and returns the updated summary.
func (s *StreakService) RegisterPlay(ctx context.Context, userID string) (*domain.StreakSummary, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	state, err := s.loadStreakState(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := domain.Today(s.clock)
	state.RegisterPlay(today)

	if err := s.saveStreakState(ctx, userID, state); err != nil {
		return nil, err
	}

	summary := state.Summary(today)
	return &summary, nil
}

// AnswerOutcome is what the UI needs after scoring the daily answer.
type AnswerOutcome struct {
	Accepted  bool                 `json:"accepted"`
	NewRecord bool                 `json:"new_record"`
	Summary   domain.StreakSummary `json:"summary"`
}

// RegisterAnswer scores the one daily answer. A second call the same day is
// reported as not accepted, never as an error.
func (s *StreakService) RegisterAnswer(ctx context.Context, userID string, correct bool) (*AnswerOutcome, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	state, err := s.loadStreakState(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := domain.Today(s.clock)
	res := state.RegisterAnswer(today, correct)

	if res.Accepted {
		if err := s.saveStreakState(ctx, userID, state); err != nil {
			return nil, err
		}
	}

	return &AnswerOutcome{
		Accepted:  res.Accepted,
		NewRecord: res.NewRecord,
		Summary:   state.Summary(today),
	}, nil
}

// Summary recomputes the read model against today's day-key. This covers the
// day-rollover query: QuizCompletedToday flips to false once the key changes.
func (s *StreakService) Summary(ctx context.Context, userID string) (*domain.StreakSummary, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	state, err := s.loadStreakState(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := state.Summary(domain.Today(s.clock))
	return &summary, nil
}

// Reset removes the user's streak record and any legacy keys.
func (s *StreakService) Reset(ctx context.Context, userID string) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	if err := s.store.Remove(ctx, streakKey(userID)); err != nil {
		return fmt.Errorf("streak service: reset failed: %w", err)
	}
	removeLegacyKeys(ctx, s.store, userID, legacyStreakFields)
	return nil
}

func (s *StreakService) loadStreakState(ctx context.Context, userID string) (*domain.StreakState, error) {
	raw, err := s.store.Get(ctx, streakKey(userID))
	if errors.Is(err, domain.ErrKeyNotFound) {
		return s.migrateLegacyStreak(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("streak service: load failed: %w", err)
	}

	state := domain.NewStreakState()
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		// corrupt record reads as a fresh one
		log.Printf("Streak record corrupt for user %s, starting fresh: %v", userID, err)
		return domain.NewStreakState(), nil
	}
	state.Normalize()
	return state, nil
}

// migrateLegacyStreak folds loose per-field keys from older installs into the
// versioned record, persists it once, and drops the old keys. Missing or
// malformed fields default to zero.
func (s *StreakService) migrateLegacyStreak(ctx context.Context, userID string) (*domain.StreakState, error) {
	state := domain.NewStreakState()

	found := false
	readInt := func(field string) int {
		raw, err := s.store.Get(ctx, legacyKey(userID, field))
		if err != nil {
			return 0
		}
		found = true
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0
		}
		return n
	}
	readDay := func(field string) domain.DayKey {
		raw, err := s.store.Get(ctx, legacyKey(userID, field))
		if err != nil {
			return ""
		}
		found = true
		return domain.DayKey(raw)
	}

	state.DailyStreak = readInt("dailyStreak")
	state.CorrectStreak = readInt("correctStreak")
	state.BestCorrectStreak = readInt("bestStreak")
	state.LastPlayDay = readDay("lastPlayDay")
	state.LastOutcomeDay = readDay("lastCorrectDay")
	state.LastAnsweredDay = readDay("lastAnsweredDay")
	if raw, err := s.store.Get(ctx, legacyKey(userID, "lastResultCorrect")); err == nil {
		found = true
		state.LastResultCorrect, _ = strconv.ParseBool(raw)
	}

	state.Normalize()

	if !found {
		return state, nil
	}

	if err := s.saveStreakState(ctx, userID, state); err != nil {
		return nil, err
	}
	removeLegacyKeys(ctx, s.store, userID, legacyStreakFields)

	log.Printf("Migrated legacy streak keys for user %s", userID)
	return state, nil
}

func (s *StreakService) saveStreakState(ctx context.Context, userID string, state *domain.StreakState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("streak service: marshal failed: %w", err)
	}
	if err := s.store.Set(ctx, streakKey(userID), string(data)); err != nil {
		return fmt.Errorf("streak service: save failed: %w", err)
	}
	return nil
}

func removeLegacyKeys(ctx context.Context, store domain.StateStore, userID string, fields []string) {
	for _, field := range fields {
		if err := store.Remove(ctx, legacyKey(userID, field)); err != nil {
			log.Printf("Failed to remove legacy key %s for user %s: %v", field, userID, err)
		}
	}
}
