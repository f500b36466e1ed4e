package diff

// RowKind distinguishes paired rows from elided runs of equal lines.
type RowKind string

const (
	RowPair RowKind = "pair"
	RowSkip RowKind = "skip"
)

// SideType tags one cell of a paired row.
type SideType string

const (
	SideEqual  SideType = "equal"
	SideInsert SideType = "insert"
	SideDelete SideType = "delete"
	SideEmpty  SideType = "empty"
)

// Side is one cell of a paired row. No is the 1-based line number, 0 when the
// cell has no line.
type Side struct {
	No       int       `json:"no,omitempty"`
	Text     string    `json:"text"`
	Type     SideType  `json:"type"`
	HTML     string    `json:"html,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
	// Synthetic marks a right cell built for review that is not an output line.
	Synthetic bool `json:"synthetic,omitempty"`
}

// Row is either a left/right pair or a skip marker counting elided equal lines.
type Row struct {
	Kind  RowKind `json:"kind"`
	Count int     `json:"count,omitempty"`
	Left  *Side   `json:"left,omitempty"`
	Right *Side   `json:"right,omitempty"`
}

func (r Row) deleteOnly() bool {
	return r.Kind == RowPair && r.Left.Type == SideDelete && r.Right.Type == SideEmpty
}

func (r Row) insertOnly() bool {
	return r.Kind == RowPair && r.Left.Type == SideEmpty && r.Right.Type == SideInsert
}

func emptySide() *Side {
	return &Side{Type: SideEmpty}
}

// BuildRows lays an edit script out side by side. Each run of deletions and
// insertions between equal lines is paired index by index; with onlyChanges,
// equal lines are folded into skip rows.
func BuildRows(edits []Edit, onlyChanges bool) []Row {
	var rows []Row
	inNo, outNo := 1, 1
	skipped := 0

	flush := func() {
		if skipped > 0 {
			rows = append(rows, Row{Kind: RowSkip, Count: skipped})
			skipped = 0
		}
	}

	for i := 0; i < len(edits); {
		e := edits[i]
		if e.Op == Equal {
			if onlyChanges {
				skipped++
			} else {
				rows = append(rows, Row{
					Kind:  RowPair,
					Left:  &Side{No: inNo, Text: e.Line, Type: SideEqual},
					Right: &Side{No: outNo, Text: e.Line, Type: SideEqual},
				})
			}
			inNo++
			outNo++
			i++
			continue
		}

		var dels, adds []string
		for ; i < len(edits) && edits[i].Op != Equal; i++ {
			if edits[i].Op == Delete {
				dels = append(dels, edits[i].Line)
			} else {
				adds = append(adds, edits[i].Line)
			}
		}

		flush()
		for k := 0; k < len(dels) || k < len(adds); k++ {
			row := Row{Kind: RowPair, Left: emptySide(), Right: emptySide()}
			if k < len(dels) {
				row.Left = &Side{No: inNo, Text: dels[k], Type: SideDelete}
				inNo++
			}
			if k < len(adds) {
				row.Right = &Side{No: outNo, Text: adds[k], Type: SideInsert}
				outNo++
			}
			if k < len(dels) && k < len(adds) {
				highlight(&row)
			}
			rows = append(rows, row)
		}
	}
	flush()
	return rows
}

// highlight fills the markup of a changed pair from its token alignment.
func highlight(row *Row) {
	l, r := Inline(row.Left.Text, row.Right.Text)
	row.Left.Segments, row.Right.Segments = l, r
	row.Left.HTML = RenderHTML(l, ClassTokenDeleted)
	row.Right.HTML = RenderHTML(r, ClassTokenAdded)
}
