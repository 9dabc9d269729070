package types

// Difficulty is the ordered level ladder for a subtopic. The order is total
// and linear; Next/Prev saturate at the ends instead of wrapping.
type Difficulty string

const (
	DifficultyBasic    Difficulty = "BASIC"
	DifficultyEasy     Difficulty = "EASY"
	DifficultyMedium   Difficulty = "MEDIUM"
	DifficultyAdvanced Difficulty = "ADVANCED"
	DifficultyExpert   Difficulty = "EXPERT"
)

var difficultyLadder = []Difficulty{
	DifficultyBasic,
	DifficultyEasy,
	DifficultyMedium,
	DifficultyAdvanced,
	DifficultyExpert,
}

func (d Difficulty) Valid() bool {
	for _, l := range difficultyLadder {
		if d == l {
			return true
		}
	}
	return false
}

// Index returns the 0-based ordinal of the level; unknown values map to BASIC.
func (d Difficulty) Index() int {
	for i, l := range difficultyLadder {
		if d == l {
			return i
		}
	}
	return 0
}

func (d Difficulty) Next() Difficulty {
	i := d.Index()
	if i >= len(difficultyLadder)-1 {
		return difficultyLadder[len(difficultyLadder)-1]
	}
	return difficultyLadder[i+1]
}

func (d Difficulty) Prev() Difficulty {
	i := d.Index()
	if i <= 0 {
		return difficultyLadder[0]
	}
	return difficultyLadder[i-1]
}

// DifficultyFromIndex maps a fractional ordinal (e.g. the mean of child
// subtopic indices) back onto the ladder with banded rounding.
func DifficultyFromIndex(idx float64) Difficulty {
	switch {
	case idx <= 0.5:
		return DifficultyBasic
	case idx <= 1.5:
		return DifficultyEasy
	case idx <= 2.5:
		return DifficultyMedium
	case idx <= 3.5:
		return DifficultyAdvanced
	default:
		return DifficultyExpert
	}
}
