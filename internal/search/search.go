// Package search ranks contact records against a free-text query.
//
// Two modes exist. Exact is a case-insensitive substring match over a
// per-record text blob. Fuzzy scores every blob with a sequence-matcher
// similarity ratio and keeps the best few above a threshold.
package search

import (
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/tartampluch/go-assistant/internal/config"
	"github.com/tartampluch/go-assistant/internal/directory"
)

// Mode tells which strategy produced a Result.
type Mode string

const (
	ModeExact Mode = "exact"
	ModeFuzzy Mode = "fuzzy"
)

// Match is a fuzzy hit and its similarity score in [0, 1].
type Match struct {
	Record *directory.Record
	Ratio  float64
}

// Result is the outcome of Search.
type Result struct {
	Mode    Mode
	Matches []Match
}

// Records returns the matched records in rank order.
func (r Result) Records() []*directory.Record {
	out := make([]*directory.Record, 0, len(r.Matches))
	for _, m := range r.Matches {
		out = append(out, m.Record)
	}
	return out
}

// Engine holds the fuzzy tuning knobs. The zero value is not usable; see New.
type Engine struct {
	MinRatio float64
	Limit    int
}

// New returns an engine with the default threshold and limit.
func New() *Engine {
	return &Engine{MinRatio: config.DefaultFuzzyMinRatio, Limit: config.DefaultFuzzyLimit}
}

// Blob is the lowercase text a record is searched by: name, phones, emails,
// address and birthday (DD.MM.YYYY), space separated.
func Blob(r *directory.Record) string {
	parts := []string{r.Name()}
	for _, p := range r.Phones() {
		parts = append(parts, p.String())
	}
	for _, e := range r.Emails() {
		parts = append(parts, e.String())
	}
	if a, ok := r.Address(); ok && a.String() != "" {
		parts = append(parts, a.String())
	}
	if b, ok := r.Birthday(); ok {
		parts = append(parts, b.String())
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Exact returns every record whose blob contains query, in input order.
// An empty query applies no filter and returns all records.
func (e *Engine) Exact(records []*directory.Record, query string) []*directory.Record {
	q := strings.ToLower(query)
	out := make([]*directory.Record, 0, len(records))
	for _, r := range records {
		if q == "" || strings.Contains(Blob(r), q) {
			out = append(out, r)
		}
	}
	return out
}

// Fuzzy scores each blob against query and returns at most Limit matches with
// a ratio of at least MinRatio, best first. Equal ratios keep input order.
func (e *Engine) Fuzzy(records []*directory.Record, query string) []Match {
	q := strings.ToLower(query)
	matches := make([]Match, 0, len(records))
	for _, r := range records {
		ratio := Ratio(q, Blob(r))
		if ratio >= e.MinRatio {
			matches = append(matches, Match{Record: r, Ratio: ratio})
		}
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		switch {
		case a.Ratio > b.Ratio:
			return -1
		case a.Ratio < b.Ratio:
			return 1
		}
		return 0
	})
	if e.Limit > 0 && len(matches) > e.Limit {
		matches = matches[:e.Limit]
	}
	return matches
}

// Search runs Exact and falls back to Fuzzy only when nothing matched exactly.
// Exact hits are reported with a ratio of 1.
func (e *Engine) Search(records []*directory.Record, query string) Result {
	if exact := e.Exact(records, query); len(exact) > 0 {
		matches := make([]Match, 0, len(exact))
		for _, r := range exact {
			matches = append(matches, Match{Record: r, Ratio: 1})
		}
		return Result{Mode: ModeExact, Matches: matches}
	}
	return Result{Mode: ModeFuzzy, Matches: e.Fuzzy(records, query)}
}

// Ratio is the sequence-matcher similarity 2*M/T between a and b, compared
// rune by rune. Two empty strings are identical.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
