package adaptive

import (
	"testing"
	"time"

	"github.com/adeptlearn/tutor-backend/internal/types"
)

func window(outcomes ...bool) []bool { return outcomes }

func repeat(v bool, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func baseState(level types.Difficulty, sinceChange int) types.SubtopicProgress {
	return types.SubtopicProgress{
		CurrentDifficulty:       level,
		AttemptsSinceLastChange: sinceChange,
	}
}

func TestEvaluateEmptyWindowIsNoOp(t *testing.T) {
	state := baseState(types.DifficultyMedium, 2)
	state.CorrectStreak = 4

	res := Evaluate(DefaultConfig(), state, nil, time.Now())
	if res.Changed {
		t.Fatalf("empty window must not change state")
	}
	if res.State != state {
		t.Fatalf("empty window must return state unchanged, got %+v", res.State)
	}
}

func TestEvaluateCooldownGateHolds(t *testing.T) {
	// A perfect window cannot promote while the cooldown is unsatisfied.
	state := baseState(types.DifficultyMedium, 1)
	state.CorrectStreak = 5

	res := Evaluate(DefaultConfig(), state, repeat(true, 10), time.Now())
	if res.Changed {
		t.Fatalf("cooldown not satisfied (1 < 3), level must not change")
	}
	if res.State.CurrentDifficulty != types.DifficultyMedium {
		t.Fatalf("level: want MEDIUM got %s", res.State.CurrentDifficulty)
	}
	if res.State.AttemptsSinceLastChange != 2 {
		t.Fatalf("attemptsSinceLastChange: want 2 got %d", res.State.AttemptsSinceLastChange)
	}
	if res.State.CorrectStreak != 6 {
		t.Fatalf("correctStreak: want 6 got %d", res.State.CorrectStreak)
	}
}

func TestEvaluatePromotesExactlyOneStep(t *testing.T) {
	// EASY, cooldown satisfied, 9/10 correct ending in a long correct run.
	state := baseState(types.DifficultyEasy, 3)
	state.CorrectStreak = 2

	w := window(true, true, true, true, true, true, true, true, true, false)
	res := Evaluate(DefaultConfig(), state, w, time.Now())
	if !res.Changed {
		t.Fatalf("expected a promotion")
	}
	if res.Direction != DirectionUp {
		t.Fatalf("direction: want up got %v", res.Direction)
	}
	if res.State.CurrentDifficulty != types.DifficultyMedium {
		t.Fatalf("level: want MEDIUM got %s", res.State.CurrentDifficulty)
	}
	if res.State.AttemptsSinceLastChange != 0 {
		t.Fatalf("attemptsSinceLastChange must reset on change, got %d", res.State.AttemptsSinceLastChange)
	}
}

func TestEvaluateExpertIsFixedPoint(t *testing.T) {
	state := baseState(types.DifficultyExpert, 10)
	state.CorrectStreak = 9

	res := Evaluate(DefaultConfig(), state, repeat(true, 10), time.Now())
	if res.Changed {
		t.Fatalf("EXPERT promotion must report changed=false")
	}
	if res.Direction != DirectionNone {
		t.Fatalf("clamped promotion must not report a direction")
	}
	if res.State.CurrentDifficulty != types.DifficultyExpert {
		t.Fatalf("level: want EXPERT got %s", res.State.CurrentDifficulty)
	}
	// No genuine change, so the cooldown counter keeps counting.
	if res.State.AttemptsSinceLastChange != 11 {
		t.Fatalf("attemptsSinceLastChange: want 11 got %d", res.State.AttemptsSinceLastChange)
	}
}

func TestEvaluateBasicIsFloor(t *testing.T) {
	// 10 wrong in a row at BASIC: demotion fires but clamps at the floor.
	state := baseState(types.DifficultyBasic, 10)
	state.WrongStreak = 9

	res := Evaluate(DefaultConfig(), state, repeat(false, 10), time.Now())
	if res.Changed {
		t.Fatalf("BASIC demotion must report changed=false")
	}
	if res.State.CurrentDifficulty != types.DifficultyBasic {
		t.Fatalf("level: want BASIC got %s", res.State.CurrentDifficulty)
	}
	if res.State.WrongStreak != 10 {
		t.Fatalf("wrongStreak: want 10 got %d", res.State.WrongStreak)
	}
}

func TestEvaluateDemotesOnLowRateAndWrongStreak(t *testing.T) {
	state := baseState(types.DifficultyAdvanced, 4)
	state.WrongStreak = 1

	// 4/10 correct, newest two wrong.
	w := window(false, false, true, true, false, true, false, true, false, false)
	res := Evaluate(DefaultConfig(), state, w, time.Now())
	if !res.Changed {
		t.Fatalf("expected a demotion")
	}
	if res.Direction != DirectionDown {
		t.Fatalf("direction: want down got %v", res.Direction)
	}
	if res.State.CurrentDifficulty != types.DifficultyMedium {
		t.Fatalf("level: want MEDIUM got %s", res.State.CurrentDifficulty)
	}
}

func TestEvaluateStreaksAreMutuallyExclusive(t *testing.T) {
	state := baseState(types.DifficultyMedium, 0)
	now := time.Now()

	outcomes := []bool{true, true, false, true, false, false, true, false, true, true}
	var hist []bool
	for _, outcome := range outcomes {
		hist = append([]bool{outcome}, hist...)
		res := Evaluate(DefaultConfig(), state, hist, now)
		state = res.State
		if state.CorrectStreak != 0 && state.WrongStreak != 0 {
			t.Fatalf("streaks simultaneously nonzero: correct=%d wrong=%d", state.CorrectStreak, state.WrongStreak)
		}
		if outcome && state.CorrectStreak == 0 {
			t.Fatalf("correct attempt must leave a correct streak")
		}
		if !outcome && state.WrongStreak == 0 {
			t.Fatalf("wrong attempt must leave a wrong streak")
		}
	}
}

func TestEvaluateRateAloneDoesNotPromote(t *testing.T) {
	// High window rate but the newest attempt broke the streak.
	state := baseState(types.DifficultyEasy, 5)
	state.CorrectStreak = 6

	w := window(false, true, true, true, true, true, true, true, true, true)
	res := Evaluate(DefaultConfig(), state, w, time.Now())
	if res.Changed {
		t.Fatalf("streak requirement must gate promotion")
	}
	if res.State.CorrectStreak != 0 || res.State.WrongStreak != 1 {
		t.Fatalf("streaks after wrong attempt: correct=%d wrong=%d", res.State.CorrectStreak, res.State.WrongStreak)
	}
}

func TestEvaluateShortWindowStillCounts(t *testing.T) {
	// Fewer attempts than the window size: rate is over what exists.
	state := baseState(types.DifficultyBasic, 3)
	state.CorrectStreak = 2

	res := Evaluate(DefaultConfig(), state, window(true, true, true), time.Now())
	if !res.Changed {
		t.Fatalf("3/3 correct with streak 3 and cooldown met must promote")
	}
	if res.State.CurrentDifficulty != types.DifficultyEasy {
		t.Fatalf("level: want EASY got %s", res.State.CurrentDifficulty)
	}
}

func TestEvaluateTruncatesOversizedWindow(t *testing.T) {
	state := baseState(types.DifficultyMedium, 5)
	// 10 newest correct, then a tail of failures that must be ignored.
	w := append(repeat(true, 10), repeat(false, 10)...)
	state.CorrectStreak = 4

	res := Evaluate(DefaultConfig(), state, w, time.Now())
	if !res.Changed || res.State.CurrentDifficulty != types.DifficultyAdvanced {
		t.Fatalf("oversized window must be truncated to the newest 10, got %s changed=%v",
			res.State.CurrentDifficulty, res.Changed)
	}
}
