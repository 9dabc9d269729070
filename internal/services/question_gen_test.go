package services

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/adeptlearn/tutor-backend/internal/types"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestKindForTopic(t *testing.T) {
	cases := []struct {
		name string
		want questionKind
	}{
		{"Addition", kindAddition},
		{"Basic Subtraction", kindSubtraction},
		{"Multiplication tables", kindMultiplication},
		{"Division", kindDivision},
		{"Fractions", kindFractions},
		{"Rectangle geometry", kindRectangle},
		{"Circle", kindCircle},
		{"Triangle", kindTriangle},
		{"Polygon", kindPolygon},
		{"Algebra", kindAddition},
	}
	for _, tc := range cases {
		if got := kindForTopic(tc.name); got != tc.want {
			t.Fatalf("kindForTopic(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestOperandRangeScalesWithDifficulty(t *testing.T) {
	cases := []struct {
		level  types.Difficulty
		lo, hi int
	}{
		{types.DifficultyBasic, 1, 10},
		{types.DifficultyEasy, 1, 30},
		{types.DifficultyMedium, 1, 100},
		{types.DifficultyAdvanced, 1, 1000},
		{types.DifficultyExpert, 1, 1000},
	}
	for _, tc := range cases {
		lo, hi := operandRange(tc.level)
		if lo != tc.lo || hi != tc.hi {
			t.Fatalf("operandRange(%s) = [%d,%d], want [%d,%d]", tc.level, lo, hi, tc.lo, tc.hi)
		}
	}
}

func TestDivisionDraftsDivideEvenly(t *testing.T) {
	rng := testRNG()
	for i := 0; i < 200; i++ {
		draft := divisionDraft(rng, types.DifficultyMedium)
		a := draft.Params["a"].(int)
		b := draft.Params["b"].(int)
		if b == 0 || a%b != 0 {
			t.Fatalf("draft %d: %d / %d does not divide evenly", i, a, b)
		}
		want := strconv.Itoa(a / b)
		if draft.Answer != want {
			t.Fatalf("draft %d: answer %q, want %q", i, draft.Answer, want)
		}
	}
}

func TestSubtractionDraftsNeverNegative(t *testing.T) {
	rng := testRNG()
	for i := 0; i < 200; i++ {
		draft := subtractionDraft(rng, types.DifficultyAdvanced)
		n, err := strconv.Atoi(draft.Answer)
		if err != nil {
			t.Fatalf("draft %d: non-numeric answer %q", i, draft.Answer)
		}
		if n < 0 {
			t.Fatalf("draft %d: negative answer %d", i, n)
		}
	}
}

func TestAdditionDraftRespectsRange(t *testing.T) {
	rng := testRNG()
	for i := 0; i < 200; i++ {
		draft := additionDraft(rng, types.DifficultyBasic)
		a := draft.Params["a"].(int)
		b := draft.Params["b"].(int)
		if a < 1 || a > 10 || b < 1 || b > 10 {
			t.Fatalf("draft %d: operands %d,%d outside BASIC range", i, a, b)
		}
		if draft.Answer != fmt.Sprintf("%d", a+b) {
			t.Fatalf("draft %d: answer %q, want %d", i, draft.Answer, a+b)
		}
	}
}

func TestGeometryDraftsHaveCompoundAnswers(t *testing.T) {
	rng := testRNG()
	rect := rectangleDraft(rng)
	if !strings.HasPrefix(rect.Answer, "Area: ") || !strings.Contains(rect.Answer, "Perimeter: ") {
		t.Fatalf("rectangle answer = %q", rect.Answer)
	}
	circle := circleDraft(rng)
	if !strings.Contains(circle.Answer, "Circumference: ") {
		t.Fatalf("circle answer = %q", circle.Answer)
	}
	tri := triangleDraft(rng)
	if !strings.Contains(tri.Answer, "Hypotenuse: ") {
		t.Fatalf("triangle answer = %q", tri.Answer)
	}
	poly := polygonDraft(rng)
	if !strings.HasPrefix(poly.Answer, "Approximate Area: ") {
		t.Fatalf("polygon answer = %q", poly.Answer)
	}
}

func TestGradeAnswer(t *testing.T) {
	cases := []struct {
		expected, got string
		want          bool
	}{
		{"42", "42", true},
		{"42", " 42 ", true},
		{"Area: 12, Perimeter: 14", "area: 12, perimeter: 14", true},
		{"42", "41", false},
		{"7/6", "7/6", true},
		{"7/6", "", false},
	}
	for _, tc := range cases {
		if got := gradeAnswer(tc.expected, tc.got); got != tc.want {
			t.Fatalf("gradeAnswer(%q, %q) = %v, want %v", tc.expected, tc.got, got, tc.want)
		}
	}
}
