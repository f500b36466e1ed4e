package transform

import (
	"context"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/showscrub/backend/internal/clock"
)

// Document is one named capture of a batch. A document with Err set could not
// be read; it is reported as failed without being converted.
type Document struct {
	Name string
	Text string
	Err  error
}

// Outcome is the conversion of one batch document. Exactly one of Result and
// Err is set.
type Outcome struct {
	Index  int
	Name   string
	Result *Result
	Err    error

	Elapsed time.Duration
}

// Healthy reports whether the document converted and its report is healthy.
func (o Outcome) Healthy() bool {
	return o.Err == nil && o.Result != nil && o.Result.Report.Healthy()
}

// ConvertBatch converts docs independently with at most workers running at
// once (unbounded when workers <= 0). A failed document does not affect the
// others; documents not started before ctx is done fail with ctx's error.
func (p *Pipeline) ConvertBatch(ctx context.Context, docs []Document, opts clock.Options, workers int) []Outcome {
	outcomes := make([]Outcome, len(docs))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, doc := range docs {
		outcomes[i] = Outcome{Index: i, Name: doc.Name}
		if doc.Err != nil {
			outcomes[i].Err = doc.Err
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}
			start := time.Now()
			res, err := p.Convert(doc.Text, opts)
			outcomes[i].Elapsed = time.Since(start)
			if err != nil {
				p.logger.Error().Err(err).Str("file", doc.Name).Msg("Conversion failed")
				outcomes[i].Err = err
				return nil
			}
			outcomes[i].Result = &res
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// BatchSummary counts the outcomes of a batch.
type BatchSummary struct {
	Total     int `json:"total"`
	Healthy   int `json:"healthy"`
	Unhealthy int `json:"unhealthy"`
	Failed    int `json:"failed"`
	// Problems lists the display names of unhealthy and failed documents.
	Problems []string `json:"problems"`
}

// Pass reports whether every document is healthy.
func (s BatchSummary) Pass() bool {
	return s.Total > 0 && s.Healthy == s.Total
}

// Summarize counts outcomes.
func Summarize(outcomes []Outcome) BatchSummary {
	sum := BatchSummary{Total: len(outcomes), Problems: []string{}}
	seen := make(map[string]struct{})
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			sum.Failed++
		case o.Healthy():
			sum.Healthy++
			continue
		default:
			sum.Unhealthy++
		}
		name := DisplayName(o.Name)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		sum.Problems = append(sum.Problems, name)
	}
	return sum
}

var (
	extRe           = regexp.MustCompile(`\.[^.]+$`)
	numberPrefixRe  = regexp.MustCompile(`^\d+\.\s*`)
	rawfileSuffixRe = regexp.MustCompile(`(?i)\s+rawfile$`)
)

// DisplayName shortens an upload name such as "3. SW1 rawfile.txt" to "SW1".
func DisplayName(name string) string {
	raw := strings.TrimSpace(name)
	if raw == "" {
		return "-"
	}
	noExt := extRe.ReplaceAllString(raw, "")
	noPrefix := numberPrefixRe.ReplaceAllString(noExt, "")
	compact := strings.TrimSpace(rawfileSuffixRe.ReplaceAllString(noPrefix, ""))
	switch {
	case compact != "":
		return compact
	case noPrefix != "":
		return noPrefix
	default:
		return raw
	}
}
