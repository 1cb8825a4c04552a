package fuzzy

import (
	"strings"

	"school_budget/pkg/core/calc"
	"school_budget/pkg/models"
)

// Match scores.
const (
	ScoreExact     = 100
	ScorePrefix    = 80
	ScoreWord      = 70
	ScoreSubstring = 60
)

// Match is the row selected for a category.
type Match struct {
	Index int
	Label string
	Score int
	Count float64
	Unit  float64
	Row   models.Row
}

// Score compares one label against an alias list and returns the best score.
func Score(label string, aliases []string) int {
	nl := calc.NormalizeText(label)
	if nl == "" {
		return 0
	}
	padded := " " + nl + " "

	best := 0
	for _, alias := range aliases {
		na := calc.NormalizeText(alias)
		if na == "" {
			continue
		}
		s := 0
		switch {
		case nl == na:
			s = ScoreExact
		case strings.HasPrefix(nl, na):
			s = ScorePrefix
		case strings.Contains(padded, " "+na+" "):
			s = ScoreWord
		case strings.Contains(nl, na):
			s = ScoreSubstring
		}
		if s > best {
			best = s
		}
	}
	return best
}

// Best selects the row that best matches a category. Ties are broken by the
// row's declared count (the richer declaration wins), not by position.
func Best(rows []models.Row, c Category) (Match, bool) {
	aliases := Aliases(c)
	var best Match
	found := false
	for i, row := range rows {
		if row == nil {
			continue
		}
		label := LabelOf(row)
		s := Score(label, aliases)
		if s == 0 {
			continue
		}
		count, _ := CountOf(row)
		if !found || s > best.Score || (s == best.Score && count > best.Count) {
			unit, _ := UnitOf(row)
			best = Match{Index: i, Label: label, Score: s, Count: count, Unit: unit, Row: row}
			found = true
		}
	}
	return best, found
}

// ResolveCount returns the declared count of the best row for a category, or 0.
func ResolveCount(rows []models.Row, c Category) float64 {
	m, ok := Best(rows, c)
	if !ok {
		return 0
	}
	return calc.NonNeg(m.Count)
}

// Resolution holds the selected row per category.
type Resolution map[Category]Match

// ResolveAll runs Best for every category.
func ResolveAll(rows []models.Row) Resolution {
	out := make(Resolution, 4)
	for _, c := range Categories() {
		if m, ok := Best(rows, c); ok {
			out[c] = m
		}
	}
	return out
}

// Count returns the resolved count of a category, or 0.
func (r Resolution) Count(c Category) float64 {
	return calc.NonNeg(r[c].Count)
}

// Unit returns the resolved unit fee of a category, or 0.
func (r Resolution) Unit(c Category) float64 {
	return calc.NonNeg(r[c].Unit)
}

// Selected reports whether row index i was chosen for any category.
func (r Resolution) Selected(i int) bool {
	for _, m := range r {
		if m.Score > 0 && m.Index == i {
			return true
		}
	}
	return false
}

// Classify returns the category a single label belongs to. Ties go to the
// earlier category in resolution order.
func Classify(label string) (Category, int) {
	var (
		bestCat   Category
		bestScore int
	)
	for _, c := range Categories() {
		if s := Score(label, Aliases(c)); s > bestScore {
			bestCat, bestScore = c, s
		}
	}
	return bestCat, bestScore
}
