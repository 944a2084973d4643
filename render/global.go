package render

import (
	"strings"

	"github.com/vexsql/vexsql/perturb"
)

// global applies the string-level perturbations that operate on the whole
// rendered sentence rather than on individual AST nodes. Order matters:
// verbosity inserts words the typo pass may then mutate, and terminal
// punctuation always runs last.
func (r *renderer) global(text string) string {
	if r.active(perturb.VerbosityVariation) {
		text = r.verbosity(text)
	}

	if r.active(perturb.PunctuationVariation) {
		text = r.punctuation(text)
	}

	if r.active(perturb.CommentAnnotations) {
		text += pick(r.cfg.Seed(), "global_comment", commentSuffixes)
	}

	if r.active(perturb.UrgencyQualifiers) {
		text = r.urgency(text)
	}

	if r.active(perturb.Typos) {
		text = r.typos(text)
	}

	return terminalPunctuation(text)
}

// verbosity wraps the sentence in conversational framing: an opener, a
// hedging filler dropped mid-sentence, and an informal tail.
func (r *renderer) verbosity(text string) string {
	opener := pick(r.cfg.Seed(), "global_opener", conversationalOpeners)
	filler := pick(r.cfg.Seed(), "global_filler", hedgingFillers)
	tail := pick(r.cfg.Seed(), "global_tail", informalTails)

	words := strings.Fields(text)
	if len(words) > 2 {
		at := 1 + source(r.cfg.Seed(), "global_filler_pos").Intn(len(words)-1)
		words = append(words[:at], append([]string{filler}, words[at:]...)...)
		text = strings.Join(words, " ")
	}

	return opener + ", " + text + " " + tail
}

// punctuation reshapes sentence rhythm: a comma before the filter clause and
// an ellipsis-style connector on conjunctions.
func (r *renderer) punctuation(text string) string {
	text = strings.Replace(text, " where ", ", where ", 1)
	text = strings.Replace(text, " and ", "... and ", 1)

	return text
}

func (r *renderer) urgency(text string) string {
	rng := source(r.cfg.Seed(), "global_urgency")

	if rng.Intn(2) == 0 {
		return pick(r.cfg.Seed(), "global_urgency_high", urgencyHigh) + " " + text
	}

	return pick(r.cfg.Seed(), "global_urgency_low", urgencyLow) + " " + text
}

// typos injects one or two naturalistic typos into eligible words. Short
// words and SQL keywords are left alone so the sentence stays parseable by a
// human reader.
func (r *renderer) typos(text string) string {
	words := strings.Fields(text)

	var eligible []int

	for i, w := range words {
		if len(w) > 3 && !protectedWords[strings.ToUpper(strings.Trim(w, ".,:;!?()"))] {
			eligible = append(eligible, i)
		}
	}

	if len(eligible) == 0 {
		return text
	}

	rng := source(r.cfg.Seed(), "global_typos")

	count := 1 + rng.Intn(2)
	if count > len(eligible) {
		count = len(eligible)
	}

	for n := 0; n < count; n++ {
		idx := eligible[rng.Intn(len(eligible))]
		words[idx] = mutateWord(words[idx], r.cfg.Seed(), n)
	}

	return strings.Join(words, " ")
}

// mutateWord applies one typo: an adjacent swap, a character deletion, or a
// character duplication, chosen per word position.
func mutateWord(word string, seed int64, n int) string {
	rng := source(seed, "global_typo_"+string(rune('0'+n)))
	runes := []rune(word)

	if len(runes) < 4 {
		return word
	}

	// Mutate interior characters only, keeping first and last intact.
	at := 1 + rng.Intn(len(runes)-2)

	switch rng.Intn(3) {
	case 0:
		if at+1 < len(runes) {
			runes[at], runes[at+1] = runes[at+1], runes[at]
		}

		return string(runes)
	case 1:
		return string(runes[:at]) + string(runes[at+1:])
	default:
		return string(runes[:at]) + string(runes[at:at+1]) + string(runes[at:])
	}
}

func terminalPunctuation(text string) string {
	trimmed := strings.TrimRight(text, " ")
	if trimmed == "" {
		return trimmed
	}

	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return trimmed
	}

	return trimmed + "."
}
