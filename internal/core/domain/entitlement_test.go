package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPolicy = QuotaPolicy{
	DailyLimits:       map[string]int{"smart_picks": 2, "hints": 3},
	TrialDurationDays: 3,
}

func testNow() time.Time {
	return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
}

func TestEntitlementState_ConsumeQuota(t *testing.T) {
	now := testNow()

	t.Run("Free user consumes until the daily limit", func(t *testing.T) {
		e := NewEntitlementState()

		assert.True(t, e.ConsumeQuota("smart_picks", d1, now, testPolicy))
		assert.True(t, e.ConsumeQuota("smart_picks", d1, now, testPolicy))
		assert.False(t, e.ConsumeQuota("smart_picks", d1, now, testPolicy))

		assert.Equal(t, 2, e.Daily["smart_picks"].Used, "denied call must not move the counter")
		assert.Equal(t, int64(2), e.Lifetime["smart_picks"], "denied call must not move the lifetime counter")
		assert.Equal(t, 0, e.Remaining("smart_picks", d1, now, testPolicy))
	})

	t.Run("Exhaustion on one day does not touch the next day", func(t *testing.T) {
		e := NewEntitlementState()

		e.ConsumeQuota("smart_picks", d1, now, testPolicy)
		e.ConsumeQuota("smart_picks", d1, now, testPolicy)
		require.False(t, e.ConsumeQuota("smart_picks", d1, now, testPolicy))

		assert.Equal(t, 2, e.Remaining("smart_picks", d2, now, testPolicy))
		assert.True(t, e.ConsumeQuota("smart_picks", d2, now, testPolicy))
	})

	t.Run("Features are isolated from each other", func(t *testing.T) {
		e := NewEntitlementState()

		e.ConsumeQuota("smart_picks", d1, now, testPolicy)
		e.ConsumeQuota("smart_picks", d1, now, testPolicy)

		assert.Equal(t, 3, e.Remaining("hints", d1, now, testPolicy))
	})

	t.Run("Plus bypasses quota and never mutates counters", func(t *testing.T) {
		e := NewEntitlementState()
		e.SetPlus(true)

		for i := 0; i < 10; i++ {
			assert.True(t, e.ConsumeQuota("smart_picks", d1, now, testPolicy))
		}

		assert.Empty(t, e.Daily)
		assert.Empty(t, e.Lifetime)
		assert.Equal(t, UnlimitedUses, e.Remaining("smart_picks", d1, now, testPolicy))
	})

	t.Run("Active trial bypasses quota", func(t *testing.T) {
		e := NewEntitlementState()
		require.True(t, e.StartTrial(now, testPolicy.TrialDurationDays))

		later := now.Add(48 * time.Hour)
		assert.True(t, e.ConsumeQuota("smart_picks", d1, later, testPolicy))
		assert.Empty(t, e.Daily)
	})

	t.Run("Expired trial falls back to free quota", func(t *testing.T) {
		e := NewEntitlementState()
		require.True(t, e.StartTrial(now, testPolicy.TrialDurationDays))

		later := now.Add(72 * time.Hour)
		assert.True(t, e.ConsumeQuota("smart_picks", d1, later, testPolicy))
		assert.Equal(t, 1, e.Daily["smart_picks"].Used)
	})

	t.Run("Unknown feature defaults to zero limit", func(t *testing.T) {
		e := NewEntitlementState()

		assert.False(t, e.ConsumeQuota("mystery", d1, now, testPolicy))
		assert.Equal(t, 0, e.Remaining("mystery", d1, now, testPolicy))
	})
}

func TestEntitlementState_TrialState(t *testing.T) {
	now := testNow()

	t.Run("Fresh user is eligible", func(t *testing.T) {
		e := NewEntitlementState()
		assert.Equal(t, TrialEligible, e.TrialState(now, 3))
	})

	t.Run("Plus user is never eligible", func(t *testing.T) {
		e := NewEntitlementState()
		e.SetPlus(true)
		assert.Equal(t, TrialNotEligible, e.TrialState(now, 3))
	})

	t.Run("StartTrial transitions eligible to active", func(t *testing.T) {
		e := NewEntitlementState()

		assert.True(t, e.StartTrial(now, 3))
		assert.Equal(t, TrialActive, e.TrialState(now, 3))
		assert.Equal(t, 3, e.TrialDaysRemaining(now, 3))
	})

	t.Run("StartTrial is a no-op when not eligible", func(t *testing.T) {
		e := NewEntitlementState()
		require.True(t, e.StartTrial(now, 3))
		firstStart := *e.TrialStartedAt

		assert.False(t, e.StartTrial(now.Add(time.Hour), 3))
		assert.Equal(t, firstStart, *e.TrialStartedAt, "trial start is recorded once, never reset")
	})

	t.Run("Trial expires purely with time", func(t *testing.T) {
		e := NewEntitlementState()
		require.True(t, e.StartTrial(now, 3))

		assert.Equal(t, TrialActive, e.TrialState(now.Add(71*time.Hour), 3))
		assert.Equal(t, 1, e.TrialDaysRemaining(now.Add(71*time.Hour), 3))
		assert.Equal(t, TrialExpired, e.TrialState(now.Add(72*time.Hour), 3))
		assert.Equal(t, 0, e.TrialDaysRemaining(now.Add(72*time.Hour), 3))
	})

	t.Run("Expired trial never becomes eligible again", func(t *testing.T) {
		e := NewEntitlementState()
		require.True(t, e.StartTrial(now, 3))

		assert.False(t, e.StartTrial(now.Add(100*24*time.Hour), 3))
	})
}

func TestEntitlementState_GrantBonus(t *testing.T) {
	now := testNow()

	t.Run("Bonus extends today's allowance only", func(t *testing.T) {
		e := NewEntitlementState()
		e.ConsumeQuota("smart_picks", d1, now, testPolicy)
		e.ConsumeQuota("smart_picks", d1, now, testPolicy)
		require.False(t, e.ConsumeQuota("smart_picks", d1, now, testPolicy))

		e.GrantBonus("smart_picks", d1, 2)

		assert.Equal(t, 2, e.Remaining("smart_picks", d1, now, testPolicy))
		assert.True(t, e.ConsumeQuota("smart_picks", d1, now, testPolicy))
		assert.Equal(t, int64(3), e.Lifetime["smart_picks"])

		// counter rolls over with the day, bonus does not carry
		assert.Equal(t, 2, e.Remaining("smart_picks", d2, now, testPolicy))
	})

	t.Run("Non-positive counts are ignored", func(t *testing.T) {
		e := NewEntitlementState()
		e.GrantBonus("hints", d1, 0)
		e.GrantBonus("hints", d1, -5)

		assert.Equal(t, 3, e.Remaining("hints", d1, now, testPolicy))
	})
}

func TestEntitlementState_RecordDailyActivity(t *testing.T) {
	e := NewEntitlementState()

	assert.True(t, e.RecordDailyActivity(d1))
	assert.False(t, e.RecordDailyActivity(d1), "idempotent within a day")
	assert.True(t, e.RecordDailyActivity(d2))

	assert.Equal(t, 2, e.MonthlyActiveDays[d1.MonthKey()])

	nextMonth := DayKey("2026-04-01")
	assert.True(t, e.RecordDailyActivity(nextMonth))
	assert.Equal(t, 1, e.MonthlyActiveDays[nextMonth.MonthKey()])
	assert.Equal(t, 2, e.MonthlyActiveDays[d1.MonthKey()], "previous month untouched")
}

func TestEntitlementState_Summary(t *testing.T) {
	now := testNow()
	e := NewEntitlementState()
	e.ConsumeQuota("hints", d1, now, testPolicy)

	sum := e.Summary(d1, now, testPolicy)

	assert.False(t, sum.Plus)
	assert.Equal(t, TrialEligible, sum.TrialStatus)
	assert.Equal(t, 0, sum.TrialDaysRemaining)
	assert.Equal(t, 2, sum.Remaining["hints"])
	assert.Equal(t, 2, sum.Remaining["smart_picks"])
}

func TestEntitlementState_Normalize(t *testing.T) {
	e := &EntitlementState{
		Daily:         map[string]DailyCounter{"hints": {Day: d1, Used: -2, Bonus: -1}},
		Lifetime:      map[string]int64{"hints": -7},
		LastActiveDay: DayKey("corrupt"),
	}

	e.Normalize()

	assert.Equal(t, EntitlementStateVersion, e.Version)
	assert.Equal(t, 0, e.Daily["hints"].Used)
	assert.Equal(t, 0, e.Daily["hints"].Bonus)
	assert.Equal(t, int64(0), e.Lifetime["hints"])
	assert.True(t, e.LastActiveDay.IsZero())
}

func TestEntitlementState_PruneHistory(t *testing.T) {
	t.Run("Drops months older than the cutoff", func(t *testing.T) {
		e := NewEntitlementState()
		e.MonthlyActiveDays = map[MonthKey]int{
			"2024-11": 12,
			"2025-03": 20,
			"2026-03": 5,
		}

		changed := e.PruneHistory(MonthKey("2025-03"), d1)

		assert.True(t, changed)
		assert.NotContains(t, e.MonthlyActiveDays, MonthKey("2024-11"))
		assert.Equal(t, 20, e.MonthlyActiveDays["2025-03"], "cutoff month itself is kept")
		assert.Equal(t, 5, e.MonthlyActiveDays["2026-03"])
	})

	t.Run("Drops stale daily counters, keeps today's", func(t *testing.T) {
		e := NewEntitlementState()
		e.Daily = map[string]DailyCounter{
			"hints":       {Day: d1, Used: 1},
			"smart_picks": {Day: DayKey("2026-03-02"), Used: 2, Bonus: 1},
		}

		changed := e.PruneHistory(MonthKey("2025-03"), d1)

		assert.True(t, changed)
		assert.Contains(t, e.Daily, "hints")
		assert.NotContains(t, e.Daily, "smart_picks")
	})

	t.Run("No-op when nothing is aged", func(t *testing.T) {
		e := NewEntitlementState()
		e.RecordDailyActivity(d1)
		e.ConsumeQuota("hints", d1, testNow(), testPolicy)

		assert.False(t, e.PruneHistory(MonthKey("2025-03"), d1))
	})
}
