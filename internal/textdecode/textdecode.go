// Package textdecode turns uploaded capture bytes into line-feed text.
package textdecode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUndecodable is returned when no candidate encoding accepts the data.
var ErrUndecodable = errors.New("text is not in any supported encoding")

// Candidate is one encoding tried by DecodeWith.
type Candidate struct {
	Name string
	// New returns a fresh decoder for one attempt.
	New func() transform.Transformer
	// Lossy marks decoders that emit U+FFFD for undefined input instead of
	// failing. Such output is rejected.
	Lossy bool
}

func charmapDecoder(cm *charmap.Charmap) func() transform.Transformer {
	return func() transform.Transformer { return cm.NewDecoder() }
}

// DefaultChain is tried in order by Decode. Latin-1 accepts any input, so the
// chain never fails.
var DefaultChain = []Candidate{
	{
		Name: "utf-8",
		New: func() transform.Transformer {
			return transform.Chain(encoding.UTF8Validator, unicode.UTF8BOM.NewDecoder())
		},
	},
	{
		Name: "utf-16",
		New: func() transform.Transformer {
			return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		},
		Lossy: true,
	},
	{Name: "windows-874", New: charmapDecoder(charmap.Windows874), Lossy: true},
	{Name: "windows-1252", New: charmapDecoder(charmap.Windows1252), Lossy: true},
	{Name: "latin-1", New: charmapDecoder(charmap.ISO8859_1)},
}

// Result is decoded text and the encoding that produced it.
type Result struct {
	Text     string `json:"-"`
	Encoding string `json:"encoding"`
}

// Decode decodes data with DefaultChain.
func Decode(data []byte) (Result, error) {
	return DecodeWith(data, DefaultChain)
}

// DecodeReader reads r fully and decodes it with DefaultChain.
func DecodeReader(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read text: %w", err)
	}
	return Decode(data)
}

// DecodeWith returns the text of the first candidate that decodes data
// cleanly, with CRLF and CR line endings turned into LF.
func DecodeWith(data []byte, chain []Candidate) (Result, error) {
	for _, c := range chain {
		out, _, err := transform.Bytes(c.New(), data)
		if err != nil {
			continue
		}
		if c.Lossy && bytes.ContainsRune(out, utf8.RuneError) {
			continue
		}
		return Result{Text: NormalizeNewlines(string(out)), Encoding: c.Name}, nil
	}
	return Result{}, ErrUndecodable
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
