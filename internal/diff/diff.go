package diff

// Result is a reviewed comparison of two line sequences.
type Result struct {
	Rows    []Row `json:"rows"`
	Added   int   `json:"added"`
	Removed int   `json:"removed"`
}

// Compare diffs before against after, lays the script out side by side and
// re-pairs moved or rewritten lines.
func Compare(before, after []string, onlyChanges bool) Result {
	edits := Lines(before, after)
	res := Result{Rows: Reconcile(BuildRows(edits, onlyChanges))}
	for _, e := range edits {
		switch e.Op {
		case Insert:
			res.Added++
		case Delete:
			res.Removed++
		}
	}
	if res.Rows == nil {
		res.Rows = []Row{}
	}
	return res
}
