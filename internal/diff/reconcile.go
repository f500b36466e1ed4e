package diff

import (
	"regexp"
	"strings"
)

const (
	// fuzzyThreshold is the lowest word-set Jaccard score accepted as the same line.
	fuzzyThreshold = 0.78
	// fuzzyWindow bounds how many rows away a fuzzy candidate may be.
	fuzzyWindow = 220
)

var (
	digitRunRe = regexp.MustCompile(`\d+`)
	nonKeyRe   = regexp.MustCompile(`[^a-z#]+`)

	counterLineRe = regexp.MustCompile(
		`(?i)^\s*\d+\s+input\s+errors,\s*\d+\s+CRC,\s*\d+\s+frame,\s*\d+\s+overrun,\s*\d+\s+ignored(?:,\s*\d+\s+abort)?\s*$`)
	abortTailRe = regexp.MustCompile(`(?i),\s*\d+\s+abort\s*$`)
	leadSpaceRe = regexp.MustCompile(`^\s*`)
	tailSpaceRe = regexp.MustCompile(`\s*$`)
)

// NormalizeKey reduces a line to lowercase words with digit runs replaced by
// "#", so lines that differ only in numbers and punctuation compare equal.
func NormalizeKey(text string) string {
	s := strings.ToLower(text)
	s = digitRunRe.ReplaceAllString(s, "#")
	s = nonKeyRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// overlap is the Jaccard similarity of the word sets of two keys.
func overlap(aKey, bKey string) float64 {
	if aKey == "" || bKey == "" {
		return 0
	}
	if aKey == bKey {
		return 1
	}
	aSet := wordSet(aKey)
	bSet := wordSet(bKey)
	inter := 0
	for w := range aSet {
		if _, ok := bSet[w]; ok {
			inter++
		}
	}
	union := len(aSet) + len(bSet) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func wordSet(key string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(key) {
		set[w] = struct{}{}
	}
	return set
}

// counterShape reports whether text is an interface error summary line and
// whether it carries the abort field.
func counterShape(text string) (hasAbort, ok bool) {
	if !counterLineRe.MatchString(text) {
		return false, false
	}
	return abortTailRe.MatchString(text), true
}

// zeroedCounterLine returns text as it reads with every counter at zero.
func zeroedCounterLine(text string) (string, bool) {
	hasAbort, ok := counterShape(text)
	if !ok {
		return "", false
	}
	line := leadSpaceRe.FindString(text) + "0 input errors, 0 CRC, 0 frame, 0 overrun, 0 ignored"
	if hasAbort {
		line += ", 0 abort"
	}
	return line + tailSpaceRe.FindString(text), true
}

// insertIndex lists the rows that hold only an inserted line.
type insertIndex struct {
	byKey    map[string][]int
	counters map[bool][]int // keyed by hasAbort
	all      []int
	keys     map[int]string
}

func indexInserts(rows []Row) insertIndex {
	idx := insertIndex{
		byKey:    make(map[string][]int),
		counters: make(map[bool][]int),
		keys:     make(map[int]string),
	}
	for i, row := range rows {
		if !row.insertOnly() {
			continue
		}
		idx.all = append(idx.all, i)
		key := NormalizeKey(row.Right.Text)
		idx.keys[i] = key
		if key != "" {
			idx.byKey[key] = append(idx.byKey[key], i)
		}
		if hasAbort, ok := counterShape(row.Right.Text); ok {
			idx.counters[hasAbort] = append(idx.counters[hasAbort], i)
		}
	}
	return idx
}

// nearest picks the closest unconsumed candidate at or after pivot, falling
// back to the closest one before it. It returns -1 when none is left.
func nearest(candidates []int, pivot int, consumed map[int]bool) int {
	forward, forwardDist := -1, 0
	closest, closestDist := -1, 0
	for _, c := range candidates {
		if consumed[c] {
			continue
		}
		dist := abs(c - pivot)
		if c >= pivot && (forward < 0 || dist < forwardDist) {
			forward, forwardDist = c, dist
		}
		if closest < 0 || dist < closestDist {
			closest, closestDist = c, dist
		}
	}
	if forward >= 0 {
		return forward
	}
	return closest
}

// closestSimilar picks the unconsumed insert within fuzzyWindow rows whose key
// overlaps leftKey the most. Ties go to the closer row, then to the later one.
func (idx insertIndex) closestSimilar(leftKey string, pivot int, consumed map[int]bool) int {
	best, bestDist := -1, 0
	bestScore := 0.0
	for _, c := range idx.all {
		if consumed[c] {
			continue
		}
		dist := abs(c - pivot)
		if dist > fuzzyWindow {
			continue
		}
		rightKey := idx.keys[c]
		if rightKey == "" {
			continue
		}
		score := overlap(leftKey, rightKey)
		if score == 0 {
			continue
		}
		better := score > bestScore ||
			(score == bestScore && dist < bestDist) ||
			(score == bestScore && dist == bestDist && c >= pivot)
		if best < 0 || better {
			best, bestDist, bestScore = c, dist, score
		}
	}
	if best < 0 || bestScore < fuzzyThreshold {
		return -1
	}
	return best
}

// Reconcile re-pairs rows holding only a deleted line with rows holding only
// an inserted line elsewhere when both are the same line in substance. It
// tries, in order, an exact normalized key, the counter summary line shape and
// word overlap. Consumed insert rows are dropped and adjacent skip rows merged.
// The input rows are not modified.
func Reconcile(rows []Row) []Row {
	rows = append([]Row(nil), rows...)
	idx := indexInserts(rows)
	consumed := make(map[int]bool)

	for i := range rows {
		row := &rows[i]
		if !row.deleteOnly() {
			continue
		}
		leftKey := NormalizeKey(row.Left.Text)
		if leftKey == "" {
			continue
		}

		best := nearest(idx.byKey[leftKey], i, consumed)
		if best < 0 {
			if hasAbort, ok := counterShape(row.Left.Text); ok {
				best = nearest(idx.counters[hasAbort], i, consumed)
			}
		}
		if best < 0 {
			best = idx.closestSimilar(leftKey, i, consumed)
		}
		if best < 0 {
			continue
		}

		matched := rows[best].Right
		left := *row.Left
		row.Left = &left
		row.Right = &Side{No: matched.No, Text: matched.Text, Type: SideInsert}
		highlight(row)
		consumed[best] = true
	}

	for i := range rows {
		row := &rows[i]
		if !row.deleteOnly() {
			continue
		}
		zeroed, ok := zeroedCounterLine(row.Left.Text)
		if !ok || zeroed == row.Left.Text {
			continue
		}
		left := *row.Left
		row.Left = &left
		row.Right = &Side{Text: zeroed, Type: SideInsert, Synthetic: true}
		highlight(row)
	}

	merged := make([]Row, 0, len(rows)-len(consumed))
	for i, row := range rows {
		if consumed[i] {
			continue
		}
		if n := len(merged); n > 0 && row.Kind == RowSkip && merged[n-1].Kind == RowSkip {
			merged[n-1].Count += row.Count
			continue
		}
		merged = append(merged, row)
	}
	return merged
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
