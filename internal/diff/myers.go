// Package diff computes line-level edit scripts between a transcript and its
// sanitized output and lays them out as side-by-side rows for review.
package diff

import "fmt"

// Op is the kind of one edit.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

var opNames = [...]string{"equal", "insert", "delete"}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Edit is one step of an edit script, carrying a whole line.
type Edit struct {
	Op   Op     `json:"op"`
	Line string `json:"line"`
}

// Lines returns a minimal edit script turning a into b using Myers' greedy
// algorithm. Lines are compared byte for byte.
func Lines(a, b []string) []Edit {
	n, m := len(a), len(b)
	if n == 0 && m == 0 {
		return nil
	}

	total := n + m
	offset := total
	v := make([]int, 2*total+1)
	// trace[d] holds the furthest x per diagonal after step d-1, for
	// diagonals -d..d (index k+d).
	var trace [][]int

	for d := 0; d <= total; d++ {
		snap := make([]int, 2*d+1)
		copy(snap, v[offset-d:offset+d+1])
		trace = append(trace, snap)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				return backtrack(trace, a, b)
			}
		}
	}
	return backtrack(trace, a, b)
}

func backtrack(trace [][]int, a, b []string) []Edit {
	x, y := len(a), len(b)
	edits := make([]Edit, 0, x+y)

	for d := len(trace) - 1; d > 0; d-- {
		v := trace[d]
		at := func(k int) int { return v[k+d] }

		k := x - y
		prevK := k - 1
		if k == -d || (k != d && at(k-1) < at(k+1)) {
			prevK = k + 1
		}
		prevX := at(prevK)
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			edits = append(edits, Edit{Op: Equal, Line: a[x-1]})
			x--
			y--
		}
		if x == prevX {
			edits = append(edits, Edit{Op: Insert, Line: b[y-1]})
			y--
		} else {
			edits = append(edits, Edit{Op: Delete, Line: a[x-1]})
			x--
		}
	}
	// Step 0 is a single snake from the origin.
	for x > 0 && y > 0 {
		edits = append(edits, Edit{Op: Equal, Line: a[x-1]})
		x--
		y--
	}

	for i, j := 0, len(edits)-1; i < j; i, j = i+1, j-1 {
		edits[i], edits[j] = edits[j], edits[i]
	}
	return edits
}
