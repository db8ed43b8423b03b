package domain

import "time"

// EntitlementStateVersion is the current on-disk schema of the ledger record.
const EntitlementStateVersion = 1

// UnlimitedUses is the Remaining sentinel for users whose quota checks are
// bypassed (active subscription or running trial).
const UnlimitedUses = -1

// TrialStatus is the computed state of the time-boxed trial window.
type TrialStatus string

const (
	TrialEligible    TrialStatus = "eligible"
	TrialActive      TrialStatus = "active"
	TrialExpired     TrialStatus = "expired"
	TrialNotEligible TrialStatus = "not_eligible"
)

// QuotaPolicy carries the fixed free-tier limits. Features without an entry
// fall back to DefaultDailyLimit.
type QuotaPolicy struct {
	DailyLimits       map[string]int
	DefaultDailyLimit int
	TrialDurationDays int
}

func (p QuotaPolicy) LimitFor(feature string) int {
	if limit, ok := p.DailyLimits[feature]; ok {
		return limit
	}
	return p.DefaultDailyLimit
}

// DailyCounter tracks one feature's consumption for one day. Day isolation is
// key-based: a counter stamped with a different day reads as zero, there is
// no reset operation.
type DailyCounter struct {
	Day   DayKey `json:"day"`
	Used  int    `json:"used"`
	Bonus int    `json:"bonus,omitempty"`
}

// EntitlementState is the per-user entitlement ledger, persisted as a single
// JSON document. Like StreakState, every transition is pure and total:
// absent counters default to zero and no operation can fail.
type EntitlementState struct {
	Version           int                     `json:"version"`
	Plus              bool                    `json:"plus"`
	TrialStartedAt    *time.Time              `json:"trial_started_at,omitempty"`
	Daily             map[string]DailyCounter `json:"daily,omitempty"`
	Lifetime          map[string]int64        `json:"lifetime,omitempty"`
	MonthlyActiveDays map[MonthKey]int        `json:"monthly_active_days,omitempty"`
	LastActiveDay     DayKey                  `json:"last_active_day,omitempty"`
}

func NewEntitlementState() *EntitlementState {
	return &EntitlementState{Version: EntitlementStateVersion}
}

// Normalize repairs a record loaded from storage, defaulting corrupt values
// to their zero state.
func (e *EntitlementState) Normalize() {
	if e.Version == 0 {
		e.Version = EntitlementStateVersion
	}
	for feature, c := range e.Daily {
		if c.Used < 0 {
			c.Used = 0
		}
		if c.Bonus < 0 {
			c.Bonus = 0
		}
		e.Daily[feature] = c
	}
	for feature, n := range e.Lifetime {
		if n < 0 {
			e.Lifetime[feature] = 0
		}
	}
	if !e.LastActiveDay.IsZero() && !e.LastActiveDay.Valid() {
		e.LastActiveDay = ""
	}
}

// TrialState computes the trial window's state at a point in time. The
// active→expired transition is purely time-based.
func (e *EntitlementState) TrialState(now time.Time, durationDays int) TrialStatus {
	if e.Plus {
		return TrialNotEligible
	}
	if e.TrialStartedAt == nil {
		return TrialEligible
	}
	if now.Sub(*e.TrialStartedAt) < time.Duration(durationDays)*24*time.Hour {
		return TrialActive
	}
	return TrialExpired
}

// TrialDaysRemaining reports whole days left in an active trial, zero
// otherwise.
func (e *EntitlementState) TrialDaysRemaining(now time.Time, durationDays int) int {
	if e.TrialState(now, durationDays) != TrialActive {
		return 0
	}
	elapsed := now.Sub(*e.TrialStartedAt)
	remaining := time.Duration(durationDays)*24*time.Hour - elapsed
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// StartTrial opens the trial window. It is a no-op unless the user is
// currently eligible; a trial start is recorded once and never reset.
func (e *EntitlementState) StartTrial(now time.Time, durationDays int) bool {
	if e.TrialState(now, durationDays) != TrialEligible {
		return false
	}
	started := now
	e.TrialStartedAt = &started
	return true
}

// unlimited reports whether quota checks are bypassed entirely.
func (e *EntitlementState) unlimited(now time.Time, durationDays int) bool {
	return e.Plus || e.TrialState(now, durationDays) == TrialActive
}

// counterFor reads the feature's counter for today. A counter stamped with
// any other day is stale and reads as zero.
func (e *EntitlementState) counterFor(feature string, today DayKey) DailyCounter {
	c, ok := e.Daily[feature]
	if !ok || c.Day != today {
		return DailyCounter{Day: today}
	}
	return c
}

// ConsumeQuota attempts to spend one use of a feature. Subscribers and trial
// users are always granted and no counter moves. Free users are granted while
// used < limit+bonus for today; a denial mutates nothing.
func (e *EntitlementState) ConsumeQuota(feature string, today DayKey, now time.Time, policy QuotaPolicy) bool {
	if e.unlimited(now, policy.TrialDurationDays) {
		return true
	}

	c := e.counterFor(feature, today)
	if c.Used >= policy.LimitFor(feature)+c.Bonus {
		return false
	}

	c.Used++
	if e.Daily == nil {
		e.Daily = make(map[string]DailyCounter)
	}
	e.Daily[feature] = c

	if e.Lifetime == nil {
		e.Lifetime = make(map[string]int64)
	}
	e.Lifetime[feature]++

	return true
}

// Remaining reports how many uses are left today, or UnlimitedUses when
// quota checks are bypassed. Never negative.
func (e *EntitlementState) Remaining(feature string, today DayKey, now time.Time, policy QuotaPolicy) int {
	if e.unlimited(now, policy.TrialDurationDays) {
		return UnlimitedUses
	}
	c := e.counterFor(feature, today)
	left := policy.LimitFor(feature) + c.Bonus - c.Used
	if left < 0 {
		return 0
	}
	return left
}

// GrantBonus credits extra uses of a feature for the current day only.
// Lifetime and historical counters are untouched.
func (e *EntitlementState) GrantBonus(feature string, today DayKey, count int) {
	if count <= 0 {
		return
	}
	c := e.counterFor(feature, today)
	c.Bonus += count
	if e.Daily == nil {
		e.Daily = make(map[string]DailyCounter)
	}
	e.Daily[feature] = c
}

// RecordDailyActivity bumps the monthly active-days counter at most once per
// distinct day. Returns true when the day was newly counted.
func (e *EntitlementState) RecordDailyActivity(today DayKey) bool {
	if e.LastActiveDay == today {
		return false
	}
	if e.MonthlyActiveDays == nil {
		e.MonthlyActiveDays = make(map[MonthKey]int)
	}
	e.MonthlyActiveDays[today.MonthKey()]++
	e.LastActiveDay = today
	return true
}

// SetPlus stores the authoritative subscription flag supplied by the purchase
// backend. The ledger consumes the boolean, it performs no verification.
func (e *EntitlementState) SetPlus(active bool) {
	e.Plus = active
}

// PruneHistory drops counters that can never be read again: monthly
// active-day buckets older than the cutoff month and daily counters left
// over from past days. Returns true when anything was removed.
func (e *EntitlementState) PruneHistory(cutoff MonthKey, today DayKey) bool {
	changed := false

	for month := range e.MonthlyActiveDays {
		if month < cutoff {
			delete(e.MonthlyActiveDays, month)
			changed = true
		}
	}

	for feature, c := range e.Daily {
		if c.Day != today {
			delete(e.Daily, feature)
			changed = true
		}
	}

	return changed
}

// EntitlementSummary is the read model handed to the UI layer.
type EntitlementSummary struct {
	Plus               bool           `json:"plus"`
	TrialStatus        TrialStatus    `json:"trial_status"`
	TrialDaysRemaining int            `json:"trial_days_remaining"`
	Remaining          map[string]int `json:"remaining"`
}

// Summary projects the ledger onto the read model for a given day, covering
// every feature the policy names.
func (e *EntitlementState) Summary(today DayKey, now time.Time, policy QuotaPolicy) EntitlementSummary {
	remaining := make(map[string]int, len(policy.DailyLimits))
	for feature := range policy.DailyLimits {
		remaining[feature] = e.Remaining(feature, today, now, policy)
	}
	return EntitlementSummary{
		Plus:               e.Plus,
		TrialStatus:        e.TrialState(now, policy.TrialDurationDays),
		TrialDaysRemaining: e.TrialDaysRemaining(now, policy.TrialDurationDays),
		Remaining:          remaining,
	}
}
