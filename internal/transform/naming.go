package transform

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultArtifactName is used when neither a serial nor an input name is known.
const DefaultArtifactName = "converted.log"

var unsafeNameRe = regexp.MustCompile(`[^\w.-]+`)

// SanitizeName replaces runs of characters outside [A-Za-z0-9_.-] with "_"
// and trims surrounding underscores, returning fallback if nothing is left.
func SanitizeName(name, fallback string) string {
	cleaned := strings.Trim(unsafeNameRe.ReplaceAllString(name, "_"), "_")
	if cleaned == "" {
		return fallback
	}
	return cleaned
}

func splitName(name string) (stem, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name, ""
	}
	return name[:idx], name[idx:]
}

// Namer hands out file names that are unique ignoring case.
type Namer struct {
	used map[string]struct{}
}

// NewNamer creates a namer with names already taken.
func NewNamer(taken ...string) *Namer {
	n := &Namer{used: make(map[string]struct{})}
	for _, name := range taken {
		n.used[strings.ToLower(name)] = struct{}{}
	}
	return n
}

// Unique returns name, or name with "_2", "_3", ... inserted before the
// extension if it is taken, and marks the result as taken.
func (n *Namer) Unique(name string) string {
	stem, ext := splitName(name)
	candidate := name
	for i := 2; ; i++ {
		if _, ok := n.used[strings.ToLower(candidate)]; !ok {
			break
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
	n.used[strings.ToLower(candidate)] = struct{}{}
	return candidate
}

// ArtifactNames returns the output file names for a converted input: one
// "<serial>.log" per serial, otherwise "<input stem>_converted.log", otherwise
// DefaultArtifactName.
func ArtifactNames(inputName string, serials []string, namer *Namer) []string {
	stem, _ := splitName(strings.TrimSpace(inputName))
	stem = SanitizeName(stem, "")

	if len(serials) == 0 {
		if stem == "" {
			return []string{namer.Unique(DefaultArtifactName)}
		}
		return []string{namer.Unique(stem + "_converted.log")}
	}

	fallback := stem
	if fallback == "" {
		fallback = "converted"
	}
	names := make([]string, 0, len(serials))
	for _, s := range serials {
		names = append(names, namer.Unique(SanitizeName(s, fallback)+".log"))
	}
	return names
}
