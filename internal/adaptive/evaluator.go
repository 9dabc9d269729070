package adaptive

import (
	"time"

	"github.com/adeptlearn/tutor-backend/internal/types"
)

// Config holds the tunables of the windowed hysteresis heuristic. A level
// change needs both a window-wide success rate past the threshold and a
// streak in the same direction, and never happens more than once per
// Cooldown attempts.
type Config struct {
	Window        int
	UpThreshold   float64
	DownThreshold float64
	UpStreak      int
	DownStreak    int
	Cooldown      int
}

func DefaultConfig() Config {
	return Config{
		Window:        10,
		UpThreshold:   0.75,
		DownThreshold: 0.45,
		UpStreak:      3,
		DownStreak:    2,
		Cooldown:      3,
	}
}

type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
)

// Result is the evaluator output: the next progress state plus whether the
// difficulty actually moved (EXPERT/BASIC clamps count as no change).
type Result struct {
	State     types.SubtopicProgress
	Changed   bool
	Direction Direction
}

// Evaluate advances the per-subtopic state machine from the rolling attempt
// window. window must be ordered newest first and is never mutated; the
// input state is copied, not written through. Empty windows are a no-op.
func Evaluate(cfg Config, state types.SubtopicProgress, window []bool, now time.Time) Result {
	next := state
	if len(window) == 0 {
		return Result{State: next}
	}
	if len(window) > cfg.Window {
		window = window[:cfg.Window]
	}

	// Streaks track only the newest attempt; the window rate below smooths
	// out the rest.
	if window[0] {
		next.CorrectStreak++
		next.WrongStreak = 0
	} else {
		next.WrongStreak++
		next.CorrectStreak = 0
	}

	correct := 0
	for _, ok := range window {
		if ok {
			correct++
		}
	}
	rate := float64(correct) / float64(len(window))

	next.AttemptsSinceLastChange++
	canChange := next.AttemptsSinceLastChange >= cfg.Cooldown

	before := next.CurrentDifficulty
	direction := DirectionNone
	switch {
	case canChange && rate >= cfg.UpThreshold && next.CorrectStreak >= cfg.UpStreak:
		next.CurrentDifficulty = before.Next()
		direction = DirectionUp
	case canChange && rate <= cfg.DownThreshold && next.WrongStreak >= cfg.DownStreak:
		next.CurrentDifficulty = before.Prev()
		direction = DirectionDown
	}

	changed := next.CurrentDifficulty != before
	if changed {
		next.AttemptsSinceLastChange = 0
	} else {
		direction = DirectionNone
	}
	next.LastUpdatedAt = now

	return Result{State: next, Changed: changed, Direction: direction}
}
