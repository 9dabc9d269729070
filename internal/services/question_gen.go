package services

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/adeptlearn/tutor-backend/internal/types"
)

type questionKind string

const (
	kindAddition       questionKind = "addition"
	kindSubtraction    questionKind = "subtraction"
	kindMultiplication questionKind = "multiplication"
	kindDivision       questionKind = "division"
	kindFractions      questionKind = "fractions"
	kindRectangle      questionKind = "rectangle"
	kindCircle         questionKind = "circle"
	kindTriangle       questionKind = "triangle"
	kindPolygon        questionKind = "polygon"
)

// kindForTopic maps a topic name onto a generator kind by substring match.
// Unknown topics fall back to addition.
func kindForTopic(name string) questionKind {
	lower := strings.ToLower(name)
	for _, k := range []questionKind{
		kindAddition, kindSubtraction, kindMultiplication, kindDivision,
		kindFractions, kindRectangle, kindCircle, kindTriangle, kindPolygon,
	} {
		if strings.Contains(lower, string(k)) {
			return k
		}
	}
	return kindAddition
}

// questionDraft is a generated question before persistence.
type questionDraft struct {
	Text   string
	Steps  string
	Answer string
	Params map[string]any
}

// operandRange returns the inclusive operand bounds for arithmetic kinds.
func operandRange(level types.Difficulty) (int, int) {
	switch level {
	case types.DifficultyEasy:
		return 1, 30
	case types.DifficultyMedium:
		return 1, 100
	case types.DifficultyAdvanced, types.DifficultyExpert:
		return 1, 1000
	default:
		return 1, 10
	}
}

func randIn(rng *rand.Rand, lo, hi int) int {
	return rng.IntN(hi-lo+1) + lo
}

func generateDraft(rng *rand.Rand, kind questionKind, level types.Difficulty) questionDraft {
	switch kind {
	case kindSubtraction:
		return subtractionDraft(rng, level)
	case kindMultiplication:
		return multiplicationDraft(rng, level)
	case kindDivision:
		return divisionDraft(rng, level)
	case kindFractions:
		return fractionsDraft(rng)
	case kindRectangle:
		return rectangleDraft(rng)
	case kindCircle:
		return circleDraft(rng)
	case kindTriangle:
		return triangleDraft(rng)
	case kindPolygon:
		return polygonDraft(rng)
	default:
		return additionDraft(rng, level)
	}
}

func additionDraft(rng *rand.Rand, level types.Difficulty) questionDraft {
	lo, hi := operandRange(level)
	a, b := randIn(rng, lo, hi), randIn(rng, lo, hi)
	answer := a + b
	return questionDraft{
		Text:   fmt.Sprintf("%d + %d = ?", a, b),
		Steps:  fmt.Sprintf("Add %d and %d to get %d.", a, b, answer),
		Answer: fmt.Sprintf("%d", answer),
		Params: map[string]any{"a": a, "b": b},
	}
}

func subtractionDraft(rng *rand.Rand, level types.Difficulty) questionDraft {
	lo, hi := operandRange(level)
	a, b := randIn(rng, lo, hi), randIn(rng, lo, hi)
	if a < b {
		a, b = b, a
	}
	answer := a - b
	return questionDraft{
		Text:   fmt.Sprintf("%d - %d = ?", a, b),
		Steps:  fmt.Sprintf("Subtract %d from %d to get %d.", b, a, answer),
		Answer: fmt.Sprintf("%d", answer),
		Params: map[string]any{"a": a, "b": b},
	}
}

func multiplicationDraft(rng *rand.Rand, level types.Difficulty) questionDraft {
	lo, hi := operandRange(level)
	a, b := randIn(rng, lo, hi), randIn(rng, lo, hi)
	answer := a * b
	return questionDraft{
		Text:   fmt.Sprintf("%d × %d = ?", a, b),
		Steps:  fmt.Sprintf("Multiply %d by %d to get %d.", a, b, answer),
		Answer: fmt.Sprintf("%d", answer),
		Params: map[string]any{"a": a, "b": b},
	}
}

// divisionDraft builds the dividend from the divisor so the answer is whole.
func divisionDraft(rng *rand.Rand, level types.Difficulty) questionDraft {
	lo, hi := operandRange(level)
	b := randIn(rng, lo, hi)
	answer := randIn(rng, lo, hi)
	a := b * answer
	return questionDraft{
		Text:   fmt.Sprintf("%d ÷ %d = ?", a, b),
		Steps:  fmt.Sprintf("Divide %d by %d to get %d.", a, b, answer),
		Answer: fmt.Sprintf("%d", answer),
		Params: map[string]any{"a": a, "b": b},
	}
}

func fractionsDraft(rng *rand.Rand) questionDraft {
	num1, den1 := randIn(rng, 1, 9), randIn(rng, 1, 9)
	num2, den2 := randIn(rng, 1, 9), randIn(rng, 1, 9)
	commonDen := den1 * den2
	sumNum := num1*den2 + num2*den1
	return questionDraft{
		Text: fmt.Sprintf("(%d/%d) + (%d/%d) = ?", num1, den1, num2, den2),
		Steps: fmt.Sprintf(
			"Bring both fractions to the common denominator %d: %d/%d and %d/%d. Add the numerators to get %d/%d.",
			commonDen, num1*den2, commonDen, num2*den1, commonDen, sumNum, commonDen),
		Answer: fmt.Sprintf("%d/%d", sumNum, commonDen),
		Params: map[string]any{"num1": num1, "den1": den1, "num2": num2, "den2": den2},
	}
}

func rectangleDraft(rng *rand.Rand) questionDraft {
	length, width := randIn(rng, 1, 20), randIn(rng, 1, 20)
	area := length * width
	perimeter := 2 * (length + width)
	return questionDraft{
		Text: fmt.Sprintf("Rectangle with length %d and width %d. Find its area and perimeter.", length, width),
		Steps: fmt.Sprintf(
			"Area = length × width = %d × %d = %d. Perimeter = 2 × (length + width) = 2 × %d = %d.",
			length, width, area, length+width, perimeter),
		Answer: fmt.Sprintf("Area: %d, Perimeter: %d", area, perimeter),
		Params: map[string]any{"length": length, "width": width},
	}
}

func circleDraft(rng *rand.Rand) questionDraft {
	radius := randIn(rng, 1, 10)
	const pi = 3.14
	area := pi * float64(radius) * float64(radius)
	circumference := 2 * pi * float64(radius)
	return questionDraft{
		Text: fmt.Sprintf("Circle with radius %d. Find its area and circumference.", radius),
		Steps: fmt.Sprintf(
			"Area = π × r² = 3.14 × %d² = %.2f. Circumference = 2 × π × r = %.2f.",
			radius, area, circumference),
		Answer: fmt.Sprintf("Area: %.2f, Circumference: %.2f", area, circumference),
		Params: map[string]any{"radius": radius},
	}
}

func triangleDraft(rng *rand.Rand) questionDraft {
	base, height := randIn(rng, 1, 20), randIn(rng, 1, 20)
	area := 0.5 * float64(base) * float64(height)
	hypotenuse := math.Sqrt(float64(base*base + height*height))
	return questionDraft{
		Text: fmt.Sprintf("Right triangle with base %d and height %d. Find its area and hypotenuse.", base, height),
		Steps: fmt.Sprintf(
			"Area = ½ × base × height = ½ × %d × %d = %.2f. Hypotenuse = √(%d² + %d²) = %.2f.",
			base, height, area, base, height, hypotenuse),
		Answer: fmt.Sprintf("Area: %.2f, Hypotenuse: %.2f", area, hypotenuse),
		Params: map[string]any{"base": base, "height": height},
	}
}

func polygonDraft(rng *rand.Rand) questionDraft {
	side := randIn(rng, 1, 10)
	apothem := float64(side) / (2 * math.Tan(math.Pi/5))
	area := 5 * float64(side) * apothem / 2
	return questionDraft{
		Text: fmt.Sprintf("Regular pentagon with side length %d. Find its approximate area.", side),
		Steps: fmt.Sprintf(
			"Apothem = side / (2 × tan(π/5)) = %.2f. Area = (5 × side × apothem) / 2 = %.2f.",
			apothem, area),
		Answer: fmt.Sprintf("Approximate Area: %.2f", area),
		Params: map[string]any{"side": side},
	}
}
