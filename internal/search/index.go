// Package search provides a simple, deterministic, concurrency-safe
// in-memory quick-search index over tickets. It backs the dashboard's
// search box:
//
//   - No logging in the library (callers decide how/what to log)
//   - Unicode-aware tokenization with accent folding, so "titulo"
//     finds "Título"
//   - Immutable, read-only index after construction (safe for concurrent use)
//   - Deterministic scoring and sorting (stable order for ties)
//
// Scoring uses Jaccard similarity between the query token set and each
// ticket's token set: score = |Q ∩ T| / |Q ∪ T|.
package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/opsvarejo/go-chamados-backend/internal/domain"
)

// Result is one ranked ticket with its similarity score.
type Result struct {
	Ticket domain.Ticket
	Score  float64
}

// Index is the minimal interface the HTTP layer depends on.
type Index interface {
	TopK(query string, k int) []Result
}

type doc struct {
	ticket domain.Ticket
	tokens map[string]struct{}
	tLen   int
}

type index struct {
	docs []doc
}

// NewIndexFromTickets builds an immutable index over the given tickets.
// Each ticket is indexed by its title, store, status, type, and region,
// so a query may match on any of them.
func NewIndexFromTickets(tickets []domain.Ticket) Index {
	docs := make([]doc, 0, len(tickets))
	for _, t := range tickets {
		text := strings.Join([]string{t.Title, t.Store, t.Status, t.Type, t.Region}, " ")
		toks := tokenize(text)
		if len(toks) == 0 {
			continue
		}
		docs = append(docs, doc{ticket: t, tokens: toks, tLen: len(toks)})
	}
	return &index{docs: docs}
}

// TopK returns up to k best-matching tickets by Jaccard similarity.
func (i *index) TopK(q string, k int) []Result {
	if len(i.docs) == 0 || strings.TrimSpace(q) == "" {
		return nil
	}
	if k <= 0 {
		k = 5
	}
	qTokens := tokenize(q)
	if len(qTokens) == 0 {
		return nil
	}
	qLen := len(qTokens)

	type scored struct {
		ticket domain.Ticket
		score  float64
	}

	buf := make([]scored, 0, len(i.docs))
	for _, d := range i.docs {
		over := overlap(qTokens, d.tokens)
		if over == 0 {
			continue
		}
		union := float64(qLen + d.tLen - over)
		if union <= 0 {
			continue
		}
		buf = append(buf, scored{ticket: d.ticket, score: float64(over) / union})
	}
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].score != buf[b].score {
			return buf[a].score > buf[b].score
		}
		if buf[a].ticket.Title != buf[b].ticket.Title {
			return buf[a].ticket.Title < buf[b].ticket.Title
		}
		return buf[a].ticket.Store < buf[b].ticket.Store
	})

	if k > len(buf) {
		k = len(buf)
	}
	out := make([]Result, k)
	for n := 0; n < k; n++ {
		out[n] = Result{Ticket: buf[n].ticket, Score: buf[n].score}
	}
	return out
}

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

func tokenize(s string) map[string]struct{} {
	s = Fold(strings.ToLower(s))
	words := wordRE.FindAllString(s, -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w != "" {
			out[w] = struct{}{}
		}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
