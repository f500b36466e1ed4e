package diff

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Word diff markers used by WriteMarked.
const (
	MarkDeleteOpen  = "[-"
	MarkDeleteClose = "-]"
	MarkInsertOpen  = "{+"
	MarkInsertClose = "+}"
)

// WriteMarked prints rows as a terminal word diff: unchanged lines start with
// two spaces, removed lines with "- " and added lines with "+ ", each followed
// by its line number. Changed tokens of a paired row are wrapped in the Mark
// delimiters. A synthesized right cell has "*" for a line number.
func WriteMarked(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	for _, row := range rows {
		if row.Kind == RowSkip {
			fmt.Fprintf(bw, "@@ %d unchanged lines @@\n", row.Count)
			continue
		}

		left, right := row.Left, row.Right
		switch {
		case left.Type == SideEqual:
			fmt.Fprintf(bw, "  %4s  %s\n", lineNo(left), left.Text)
		case left.Type == SideDelete && right.Type == SideInsert:
			fmt.Fprintf(bw, "- %4s  %s\n", lineNo(left), marked(left, MarkDeleteOpen, MarkDeleteClose))
			fmt.Fprintf(bw, "+ %4s  %s\n", lineNo(right), marked(right, MarkInsertOpen, MarkInsertClose))
		case left.Type == SideDelete:
			fmt.Fprintf(bw, "- %4s  %s\n", lineNo(left), left.Text)
		case right.Type == SideInsert:
			fmt.Fprintf(bw, "+ %4s  %s\n", lineNo(right), right.Text)
		}
	}
	return bw.Flush()
}

func lineNo(s *Side) string {
	if s.No == 0 {
		return "*"
	}
	return strconv.Itoa(s.No)
}

func marked(s *Side, open, close string) string {
	if len(s.Segments) == 0 {
		return s.Text
	}
	return RenderMarked(s.Segments, open, close)
}
