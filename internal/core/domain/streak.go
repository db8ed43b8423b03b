package domain

// StreakStateVersion is the current on-disk schema of the streak record.
// Older installs persisted one loose key per field; LoadStreakState in the
// services layer folds those into a versioned record on first read.
const StreakStateVersion = 1

// StreakState is the per-user streak record, persisted as a single JSON
// document. All transitions are pure: no clock, no I/O, the caller supplies
// today's day-key.
//
// LastOutcomeDay is the most recent day a scored answer landed, correct or
// not. The streak-continuation check compares it against yesterday; after a
// wrong answer CorrectStreak is zero, so continuing from a wrong day and
// starting fresh both yield a streak of one.
type StreakState struct {
	Version           int    `json:"version"`
	DailyStreak       int    `json:"daily_streak"`
	CorrectStreak     int    `json:"correct_streak"`
	BestCorrectStreak int    `json:"best_correct_streak"`
	LastPlayDay       DayKey `json:"last_play_day,omitempty"`
	LastOutcomeDay    DayKey `json:"last_outcome_day,omitempty"`
	LastAnsweredDay   DayKey `json:"last_answered_day,omitempty"`
	LastResultCorrect bool   `json:"last_result_correct"`
}

func NewStreakState() *StreakState {
	return &StreakState{Version: StreakStateVersion}
}

// Normalize repairs a record loaded from storage: negative counters clamp to
// zero, malformed day-keys read as absent, and the best-streak high-water
// mark is restored. Corrupt values are never an error.
func (s *StreakState) Normalize() {
	if s.Version == 0 {
		s.Version = StreakStateVersion
	}
	if s.DailyStreak < 0 {
		s.DailyStreak = 0
	}
	if s.CorrectStreak < 0 {
		s.CorrectStreak = 0
	}
	if s.BestCorrectStreak < s.CorrectStreak {
		s.BestCorrectStreak = s.CorrectStreak
	}
	if !s.LastPlayDay.IsZero() && !s.LastPlayDay.Valid() {
		s.LastPlayDay = ""
	}
	if !s.LastOutcomeDay.IsZero() && !s.LastOutcomeDay.Valid() {
		s.LastOutcomeDay = ""
	}
	if !s.LastAnsweredDay.IsZero() && !s.LastAnsweredDay.Valid() {
		s.LastAnsweredDay = ""
	}
}

// RegisterPlay counts at most one play per day: consecutive days extend the
// streak, a repeat on the same day is a no-op, any gap restarts at one.
func (s *StreakState) RegisterPlay(today DayKey) {
	switch s.LastPlayDay {
	case today:
		// already counted today
	case today.PrevDay():
		s.DailyStreak++
	default:
		s.DailyStreak = 1
	}
	s.LastPlayDay = today
}

// AnswerResult reports what a RegisterAnswer call actually did.
type AnswerResult struct {
	// Accepted is false when the day was already locked by an earlier
	// answer and the call was a no-op.
	Accepted bool
	// NewRecord is true when this answer pushed BestCorrectStreak to a new
	// high-water mark.
	NewRecord bool
}

// RegisterAnswer scores the daily answer. The one-answer-per-day gate is
// enforced here: once a day is locked, further answers that day do nothing.
// Every accepted answer also counts as a play.
func (s *StreakState) RegisterAnswer(today DayKey, correct bool) AnswerResult {
	if s.LastAnsweredDay == today {
		return AnswerResult{Accepted: false}
	}

	var res AnswerResult
	res.Accepted = true

	if correct {
		switch s.LastOutcomeDay {
		case today:
			// already scored today
		case today.PrevDay():
			s.CorrectStreak++
		default:
			s.CorrectStreak = 1
		}
		if s.CorrectStreak > s.BestCorrectStreak {
			s.BestCorrectStreak = s.CorrectStreak
			res.NewRecord = true
		}
	} else {
		s.CorrectStreak = 0
	}

	s.LastOutcomeDay = today
	s.LastAnsweredDay = today
	s.LastResultCorrect = correct

	s.RegisterPlay(today)

	return res
}

// QuizCompleted reports whether today's answer is already locked in, and if
// so whether it was correct. Pure recomputation, used on day rollover.
func (s *StreakState) QuizCompleted(today DayKey) (bool, *bool) {
	if s.LastAnsweredDay != today {
		return false, nil
	}
	result := s.LastResultCorrect
	return true, &result
}

// StreakSummary is the read model handed to the UI layer.
type StreakSummary struct {
	DailyStreak        int   `json:"daily_streak"`
	CorrectStreak      int   `json:"correct_streak"`
	BestCorrectStreak  int   `json:"best_correct_streak"`
	QuizCompletedToday bool  `json:"quiz_completed_today"`
	LastResultCorrect  *bool `json:"last_result_correct,omitempty"`
}

// Summary projects the state onto the read model for a given day.
func (s *StreakState) Summary(today DayKey) StreakSummary {
	completed, last := s.QuizCompleted(today)
	return StreakSummary{
		DailyStreak:        s.DailyStreak,
		CorrectStreak:      s.CorrectStreak,
		BestCorrectStreak:  s.BestCorrectStreak,
		QuizCompletedToday: completed,
		LastResultCorrect:  last,
	}
}
