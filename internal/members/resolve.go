package members

import (
	"strconv"
	"strings"

	"github.com/teemow/clickup-mcp/internal/logging"
)

// Match tiers reported per identifier.
const (
	MatchNumeric    = "numeric"
	MatchExact      = "exact"
	MatchSubstring  = "substring"
	MatchUnresolved = "unresolved"
)

// Options tunes the resolution policy.
type Options struct {
	// VerifyNumeric makes numeric identifiers go through the roster like any
	// other identifier instead of being accepted as-is. Numeric identifiers
	// that do not name a roster member are then dropped.
	VerifyNumeric bool
}

// Outcome describes how a single identifier was handled.
type Outcome struct {
	Identifier string  `json:"identifier"`
	Match      string  `json:"match"`
	ID         int64   `json:"id,omitempty"`
	Member     *Member `json:"member,omitempty"`
}

// Resolution is the result of resolving a batch of identifiers.
type Resolution struct {
	// IDs holds one entry per resolved identifier, in input order.
	// Duplicates are kept.
	IDs        []int64   `json:"ids"`
	Unresolved []string  `json:"unresolved,omitempty"`
	Outcomes   []Outcome `json:"outcomes"`
}

// IsNumeric reports whether identifier parses as a base-10 int64.
// Leading and trailing whitespace is ignored.
func IsNumeric(identifier string) bool {
	_, ok := parseNumeric(identifier)
	return ok
}

func parseNumeric(identifier string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(identifier), 10, 64)
	return id, err == nil
}

// NeedsRoster reports whether resolving identifiers requires a roster.
func NeedsRoster(identifiers []string, opts Options) bool {
	if opts.VerifyNumeric {
		return len(identifiers) > 0
	}
	for _, id := range identifiers {
		if !IsNumeric(id) {
			return true
		}
	}
	return false
}

// Resolve maps identifiers to member IDs against a single roster snapshot.
// Unresolved identifiers are logged at warn level and omitted from IDs.
func Resolve(roster Roster, identifiers []string, logger logging.Logger) []int64 {
	return ResolveWithOptions(roster, identifiers, Options{}, logger).IDs
}

// ResolveWithOptions is Resolve with tunable policy and a per-identifier report.
func ResolveWithOptions(roster Roster, identifiers []string, opts Options, logger logging.Logger) Resolution {
	if logger == nil {
		logger = logging.Discard()
	}

	res := Resolution{
		IDs:      make([]int64, 0, len(identifiers)),
		Outcomes: make([]Outcome, 0, len(identifiers)),
	}

	for _, identifier := range identifiers {
		out := resolveOne(roster, identifier, opts)
		res.Outcomes = append(res.Outcomes, out)

		if out.Match == MatchUnresolved {
			res.Unresolved = append(res.Unresolved, identifier)
			logger.Warn("could not resolve member identifier", logging.Identifier(identifier))
			continue
		}
		res.IDs = append(res.IDs, out.ID)
	}

	return res
}

func resolveOne(roster Roster, identifier string, opts Options) Outcome {
	if !opts.VerifyNumeric {
		if id, ok := parseNumeric(identifier); ok {
			return Outcome{Identifier: identifier, Match: MatchNumeric, ID: id}
		}
	}

	m, tier := find(roster, identifier)
	if m == nil {
		return Outcome{Identifier: identifier, Match: MatchUnresolved}
	}
	return Outcome{Identifier: identifier, Match: tier, ID: m.ID, Member: m}
}

// find runs the exact tier over the whole roster before the substring tier.
func find(roster Roster, identifier string) (*Member, string) {
	lower := strings.ToLower(identifier)

	for i := range roster {
		if roster[i].exact(identifier, lower) {
			m := roster[i]
			return &m, MatchExact
		}
	}
	for i := range roster {
		if roster[i].partial(lower) {
			m := roster[i]
			return &m, MatchSubstring
		}
	}
	return nil, MatchUnresolved
}

// FindMember returns the best roster match for identifier, or nil.
// Unlike Resolve, numeric identifiers are not accepted on their own;
// they only match a member whose ID is exactly that number.
func FindMember(roster Roster, identifier string) *Member {
	m, _ := find(roster, identifier)
	return m
}

// SearchMembers returns every member whose username or email contains query
// (case-insensitive), or whose decimal ID contains query verbatim.
func SearchMembers(roster Roster, query string) Roster {
	lower := strings.ToLower(query)
	out := make(Roster, 0)
	for _, m := range roster {
		if m.partial(lower) || strings.Contains(m.IDString(), query) {
			out = append(out, m)
		}
	}
	return out
}
