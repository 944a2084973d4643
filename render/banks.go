package render

import (
	"regexp"

	"github.com/vexsql/vexsql"
)

// datePattern recognizes absolute ISO dates inside string literals.
var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Word banks. The first element of every bank is the canonical form used when
// the corresponding perturbation is inactive.

var synonyms = map[string][]string{
	"get":        {"Get", "fetch", "retrieve", "pull", "extract", "obtain", "find"},
	"where":      {"where", "having", "with", "for which", "that have", "filtering by"},
	"from":       {"from", "in", "within", "out of"},
	"grouped by": {"grouped by", "organized by", "categorized by", "partitioned by"},
	"ordered by": {"ordered by", "sorted by", "arranged by"},
	"limited to": {"limited to", "taking only", "restricted to", "top"},
	"having":     {"having", "with condition", "where aggregate", "filtered by"},
	"joined with": {
		"joined with", "linked to", "connected to", "combined with", "merged with",
	},
	"insert":  {"Insert", "Add", "Create"},
	"update":  {"Update", "Change", "Modify"},
	"delete":  {"Delete", "Remove", "Drop"},
	"setting": {"setting", "changing", "assigning"},
}

// canonicalOps is the default phrasing for binary operators.
var canonicalOps = map[vexsql.BinaryOp]string{
	vexsql.OpEq:   "equals",
	vexsql.OpNe:   "is not equal to",
	vexsql.OpGt:   "greater than",
	vexsql.OpGe:   "greater than or equal to",
	vexsql.OpLt:   "less than",
	vexsql.OpLe:   "less than or equal to",
	vexsql.OpLike: "like",
	vexsql.OpAnd:  "and",
	vexsql.OpOr:   "or",
}

// opVariations are the hedged phrasings used by the operator-variation
// perturbation.
var opVariations = map[vexsql.BinaryOp][]string{
	vexsql.OpGt: {"exceeds", "more than", "above", "higher than"},
	vexsql.OpLt: {"below", "under", "fewer than", "lower than"},
	vexsql.OpGe: {"at least", "minimum of", "no less than"},
	vexsql.OpLe: {"at most", "maximum of", "no more than"},
	vexsql.OpEq: {"is", "matches", "is equal to"},
	vexsql.OpNe: {"differs from", "is not", "isn't"},
}

// aggCanonical is the default phrasing for aggregate calls.
var aggCanonical = map[vexsql.AggKind]string{
	vexsql.AggCount: "count of",
	vexsql.AggSum:   "sum of",
	vexsql.AggAvg:   "average of",
	vexsql.AggMin:   "minimum of",
	vexsql.AggMax:   "maximum of",
}

// aggVariations are the vague phrasings used by the aggregate-variation
// perturbation.
var aggVariations = map[vexsql.AggKind][]string{
	vexsql.AggCount: {"total number of", "how many", "roughly how many", "tally of"},
	vexsql.AggSum:   {"total", "add up", "combined amount of"},
	vexsql.AggAvg:   {"typical", "mean", "average-ish"},
	vexsql.AggMin:   {"lowest", "smallest", "bottom"},
	vexsql.AggMax:   {"highest", "largest", "top"},
}

// schemaSynonyms replaces table and column names under the
// table-column-synonym perturbation. Names without a bank entry fall back to
// a naming-convention change (snake_case to camelCase).
var schemaSynonyms = map[string][]string{
	"users":       {"members", "accounts", "profiles", "customers"},
	"posts":       {"articles", "entries", "content", "publications"},
	"comments":    {"replies", "responses", "feedback"},
	"view_count":  {"views", "visit_count", "impressions"},
	"email":       {"email_address", "contact", "mail"},
	"is_verified": {"verified", "is_confirmed", "confirmed"},
}

// temporalHedges replace absolute dates and interval arithmetic under the
// temporal-variation perturbation.
var temporalHedges = []string{"recently", "since last year", "this month"}

// pronouns replace a single schema reference under the ambiguous-pronoun
// perturbation.
var pronouns = []string{"it", "that", "this field"}

// Filler banks for the verbosity perturbation.
var (
	hedgingFillers        = []string{"basically", "kind of", "sort of", "like", "you know", "I think", "probably"}
	conversationalOpeners = []string{"So", "Well", "Okay", "Alright", "Um", "Uh"}
	informalTails         = []string{"or something", "or whatever", "if that makes sense", "and all that"}
)

// Urgency qualifier banks.
var (
	urgencyHigh = []string{"URGENT:", "ASAP:", "Immediately:", "Critical:", "High priority:"}
	urgencyLow  = []string{"When you can,", "No rush,", "At your convenience,", "Low priority:"}
)

// commentSuffixes are appended under the comment-annotation perturbation.
var commentSuffixes = []string{" -- (note: for analysis)", " (specifically active records)"}

// vagueJoinConnectives replace join syntax under the incomplete-join
// perturbation.
var vagueJoinConnectives = []string{"with", "along with"}

// protectedWords are never mutated by the typo perturbation, so the output
// stays recognizable as a query description.
var protectedWords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "JOIN": true,
	"GROUP": true, "ORDER": true, "LIMIT": true, "HAVING": true,
	"INSERT": true, "UPDATE": true, "DELETE": true, "INTO": true,
	"VALUES": true, "ON": true, "BY": true, "AND": true, "OR": true,
	"IN": true, "LIKE": true, "COUNT": true, "SUM": true, "AVG": true,
	"MIN": true, "MAX": true,
}
