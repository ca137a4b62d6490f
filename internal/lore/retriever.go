package lore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"
)

// NoContext is returned when no lore entry scores above zero.
const NoContext = "Aucun contexte pertinent trouvé."

// fuzzyThreshold is the minimum Ratcliff/Obershelp similarity for a fuzzy
// match to contribute to an entry's score.
const fuzzyThreshold = 0.6

// Retriever scores lore entries against free-text player input and formats
// the best matches as generation context. Scoring is deterministic: the same
// input over the same dataset always yields the same context string.
type Retriever struct {
	entries []Entry
	logger  *zap.Logger
}

// NewRetriever creates a retriever over the given entries.
func NewRetriever(entries []Entry, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		entries: entries,
		logger:  logger,
	}
}

// scored pairs an entry with its relevance score.
type scored struct {
	score int
	entry Entry
}

// Context returns up to maxResults formatted lore lines relevant to the
// input, best first, or NoContext when nothing scores above zero.
//
// The score is additive per entry:
//   - +3 per keyword appearing as a literal substring of the input
//   - +floor(2*sim) per keyword with similarity to the input above 0.6
//   - +4 when the entry name is a literal substring of the input, else
//     +floor(3*sim) when the name similarity is above 0.6
//   - +1 when any whitespace token of the input appears in the body
//
// Ties preserve dataset load order.
func (r *Retriever) Context(input string, maxResults int) string {
	inputLower := strings.ToLower(input)
	var results []scored

	for _, entry := range r.entries {
		score := 0

		for _, kw := range entry.Keywords {
			if strings.Contains(inputLower, strings.ToLower(kw)) {
				score += 3
			}
		}

		for _, kw := range entry.Keywords {
			if sim := similarity(kw, inputLower); sim > fuzzyThreshold {
				score += int(sim * 2)
			}
		}

		if name := entry.DisplayName(); name != "" {
			if strings.Contains(inputLower, strings.ToLower(name)) {
				score += 4
			} else if sim := similarity(name, input); sim > fuzzyThreshold {
				score += int(sim * 3)
			}
		}

		if body := entry.Body(); body != "" {
			bodyLower := strings.ToLower(body)
			for _, word := range strings.Fields(inputLower) {
				if strings.Contains(bodyLower, word) {
					score++
					break
				}
			}
		}

		if score > 0 {
			results = append(results, scored{score: score, entry: entry})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}

	if len(results) == 0 {
		return NoContext
	}

	var sb strings.Builder
	for _, res := range results {
		fmt.Fprintf(&sb, "[%s] %s : %s\n",
			strings.ToUpper(res.entry.Category),
			res.entry.DisplayName(),
			res.entry.Body(),
		)
	}

	r.logger.Debug("lore context assembled",
		zap.Int("matches", len(results)),
	)

	return sb.String()
}

// similarity is the Ratcliff/Obershelp ratio over lowercased strings,
// computed per rune with difflib's SequenceMatcher.
func similarity(a, b string) float64 {
	return difflib.NewMatcher(splitRunes(strings.ToLower(a)), splitRunes(strings.ToLower(b))).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
