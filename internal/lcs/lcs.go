// Package lcs aligns two sequences along their longest common subsequence.
//
// Command-order validation (elements are command labels) aligns from the end
// with AlignFromEnd; intra-line highlighting (elements are word tokens) aligns
// forward with Align.
package lcs

// Op tags one step of an alignment.
type Op int

const (
	// Match means a[A] == b[B] and both are part of the common subsequence.
	Match Op = iota
	// OnlyA means a[A] has no counterpart in b.
	OnlyA
	// OnlyB means b[B] has no counterpart in a.
	OnlyB
)

// Step is one position of an alignment. The index of a side without an
// element is -1.
type Step struct {
	Op Op
	A  int
	B  int
}

// Table returns the suffix length table: t[i][j] is the LCS length of a[i:]
// and b[j:]. The table has len(a)+1 rows of len(b)+1 columns.
func Table[T comparable](a, b []T) [][]int {
	n, m := len(a), len(b)
	cells := make([]int, (n+1)*(m+1))
	t := make([][]int, n+1)
	for i := range t {
		t[i] = cells[i*(m+1) : (i+1)*(m+1)]
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				t[i][j] = t[i+1][j+1] + 1
			} else if t[i+1][j] >= t[i][j+1] {
				t[i][j] = t[i+1][j]
			} else {
				t[i][j] = t[i][j+1]
			}
		}
	}
	return t
}

// Align returns a complete alignment of a and b. Walking forward, ties are
// resolved by consuming from a first, so unmatched elements of a are reported
// before unmatched elements of b at the same position.
func Align[T comparable](a, b []T) []Step {
	t := Table(a, b)
	steps := make([]Step, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			steps = append(steps, Step{Op: Match, A: i, B: j})
			i++
			j++
		case t[i+1][j] >= t[i][j+1]:
			steps = append(steps, Step{Op: OnlyA, A: i, B: -1})
			i++
		default:
			steps = append(steps, Step{Op: OnlyB, A: -1, B: j})
			j++
		}
	}
	for ; i < len(a); i++ {
		steps = append(steps, Step{Op: OnlyA, A: i, B: -1})
	}
	for ; j < len(b); j++ {
		steps = append(steps, Step{Op: OnlyB, A: -1, B: j})
	}
	return steps
}

// AlignFromEnd returns a complete alignment of a and b built by walking back
// from the ends of both sequences. Ties are resolved by consuming from a
// first, so when an element is repeated the later copies are the ones
// matched. Steps are returned in forward order.
func AlignFromEnd[T comparable](a, b []T) []Step {
	n, m := len(a), len(b)
	cells := make([]int, (n+1)*(m+1))
	p := make([][]int, n+1)
	for i := range p {
		p[i] = cells[i*(m+1) : (i+1)*(m+1)]
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			switch {
			case a[i-1] == b[j-1]:
				p[i][j] = p[i-1][j-1] + 1
			case p[i-1][j] >= p[i][j-1]:
				p[i][j] = p[i-1][j]
			default:
				p[i][j] = p[i][j-1]
			}
		}
	}

	steps := make([]Step, 0, n+m)
	i, j := n, m
	for i > 0 && j > 0 {
		switch {
		case a[i-1] == b[j-1]:
			steps = append(steps, Step{Op: Match, A: i - 1, B: j - 1})
			i--
			j--
		case p[i-1][j] >= p[i][j-1]:
			steps = append(steps, Step{Op: OnlyA, A: i - 1, B: -1})
			i--
		default:
			steps = append(steps, Step{Op: OnlyB, A: -1, B: j - 1})
			j--
		}
	}
	for ; i > 0; i-- {
		steps = append(steps, Step{Op: OnlyA, A: i - 1, B: -1})
	}
	for ; j > 0; j-- {
		steps = append(steps, Step{Op: OnlyB, A: -1, B: j - 1})
	}

	for l, r := 0, len(steps)-1; l < r; l, r = l+1, r-1 {
		steps[l], steps[r] = steps[r], steps[l]
	}
	return steps
}

// Length returns the length of the longest common subsequence of a and b.
func Length[T comparable](a, b []T) int {
	return Table(a, b)[0][0]
}

// Matched reports, per element, whether it is covered by the alignment.
func Matched(steps []Step, lenA, lenB int) (inA, inB []bool) {
	inA = make([]bool, lenA)
	inB = make([]bool, lenB)
	for _, s := range steps {
		if s.Op == Match {
			inA[s.A] = true
			inB[s.B] = true
		}
	}
	return inA, inB
}
