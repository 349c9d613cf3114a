package complexity

import "fmt"

// Category is a discrete complexity bucket derived from the overall score.
type Category string

const (
	CategoryTrivial     Category = "TRIVIAL"
	CategorySimple      Category = "SIMPLE"
	CategoryModerate    Category = "MODERATE"
	CategoryComplex     Category = "COMPLEX"
	CategoryVeryComplex Category = "VERY_COMPLEX"
	CategoryCritical    Category = "CRITICAL"
)

// breakpoint is the inclusive lower bound of a category.
type breakpoint struct {
	lower    float64
	category Category
}

// breakpoints are ordered from the highest bucket down; the first lower
// bound the score reaches wins. CRITICAL is closed at 1.0 because scores
// never exceed it.
var breakpoints = []breakpoint{
	{0.90, CategoryCritical},
	{0.75, CategoryVeryComplex},
	{0.60, CategoryComplex},
	{0.40, CategoryModerate},
	{0.20, CategorySimple},
	{0, CategoryTrivial},
}

// Categorize maps a score in [0,1] to its bucket.
func Categorize(score float64) Category {
	for _, bp := range breakpoints {
		if score >= bp.lower {
			return bp.category
		}
	}
	return CategoryTrivial
}

// totalHours is the effort budget per category.
var totalHours = map[Category]float64{
	CategoryTrivial:     4,
	CategorySimple:      16,
	CategoryModerate:    40,
	CategoryComplex:     120,
	CategoryVeryComplex: 320,
	CategoryCritical:    640,
}

// TotalHours returns the effort budget for a category.
func TotalHours(c Category) (float64, error) {
	h, ok := totalHours[c]
	if !ok {
		return 0, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, c)
	}
	return h, nil
}

// ValidateCategory returns an error if the category is not recognized.
func ValidateCategory(c Category) error {
	if _, ok := totalHours[c]; !ok {
		return fmt.Errorf("invalid category %q: must be one of: TRIVIAL, SIMPLE, MODERATE, COMPLEX, VERY_COMPLEX, CRITICAL", c)
	}
	return nil
}

// Result is the outcome of scoring a project.
type Result struct {
	Dimensions Scores   `json:"dimensions" yaml:"dimensions"`
	Score      float64  `json:"overall_score" yaml:"overall_score"`
	Category   Category `json:"category" yaml:"category"`
}

// Assess scores signals end to end. Phase count is chosen by the planner
// because it also depends on the domain composition.
func Assess(sig ProjectSignals) (Result, error) {
	dims, err := ScoreDimensions(sig)
	if err != nil {
		return Result{}, err
	}
	score := Overall(dims)
	return Result{
		Dimensions: dims,
		Score:      score,
		Category:   Categorize(score),
	}, nil
}
