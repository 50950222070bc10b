// Package bloom implements the Bloom-taxonomy level selection used when
// configuring exam and practice sessions. Levels form a fixed ladder;
// selecting a level always pulls in everything below it, so a valid
// selection is a prefix of the ladder.
package bloom

// Level is one of six ordered cognitive-difficulty tiers.
type Level string

const (
	Remember   Level = "remember"
	Understand Level = "understand"
	Apply      Level = "apply"
	Analyze    Level = "analyze"
	Evaluate   Level = "evaluate"
	Create     Level = "create"
)

// Levels lists all levels from lowest to highest.
var Levels = []Level{Remember, Understand, Apply, Analyze, Evaluate, Create}

// difficulty buckets used by the backend's question generator.
var levelDifficulty = map[Level]string{
	Remember:   "EASY",
	Understand: "EASY",
	Apply:      "MEDIUM",
	Analyze:    "MEDIUM",
	Evaluate:   "HARD",
	Create:     "HARD",
}

// Rank returns the position of l on the ladder, or -1 for an unknown level.
func Rank(l Level) int {
	for i, level := range Levels {
		if level == l {
			return i
		}
	}
	return -1
}

// Valid reports whether l names a known level.
func Valid(l Level) bool {
	return Rank(l) >= 0
}

// Difficulty maps a level to the backend's EASY/MEDIUM/HARD bucket.
// Unknown levels map to the empty string.
func Difficulty(l Level) string {
	return levelDifficulty[l]
}

// Selection is an ordered set of selected levels. The zero value is an empty
// selection. All mutations preserve the prefix invariant: the selected set is
// always [Remember..X] for some X, or empty.
type Selection struct {
	levels []Level
}

// NewSelection builds a selection from raw level names, normalizing it to
// the prefix ending at the highest valid level named. Unknown names are
// ignored.
func NewSelection(raw []string) Selection {
	highest := -1
	for _, r := range raw {
		if rank := Rank(Level(r)); rank > highest {
			highest = rank
		}
	}
	var s Selection
	if highest >= 0 {
		s.levels = append(s.levels, Levels[:highest+1]...)
	}
	return s
}

// Toggle flips level l:
//   - selecting an unselected level also selects every level below it;
//   - deselecting a selected level also deselects every level above it.
//
// Unknown levels are a no-op.
func (s Selection) Toggle(l Level) Selection {
	rank := Rank(l)
	if rank < 0 {
		return s
	}
	if s.Contains(l) {
		// Keep everything strictly below l.
		return Selection{levels: append([]Level(nil), Levels[:rank]...)}
	}
	count := len(s.levels)
	if rank+1 > count {
		count = rank + 1
	}
	return Selection{levels: append([]Level(nil), Levels[:count]...)}
}

// Contains reports whether l is currently selected.
func (s Selection) Contains(l Level) bool {
	rank := Rank(l)
	return rank >= 0 && rank < len(s.levels)
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s.levels) == 0
}

// Levels returns the selected levels from lowest to highest.
func (s Selection) Levels() []Level {
	return append([]Level(nil), s.levels...)
}

// Highest returns the top selected level. The second return is false for an
// empty selection; an empty selection has no difficulty and must be rejected
// before submission.
func (s Selection) Highest() (Level, bool) {
	if len(s.levels) == 0 {
		return "", false
	}
	return s.levels[len(s.levels)-1], true
}
