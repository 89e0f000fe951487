// Package normalize canonicalizes free-text metadata labels into stable
// [a-z0-9_] identifiers used as column names.
package normalize

import (
	"regexp"
	"strings"
)

var (
	reSeparators  = regexp.MustCompile(`[\s\-.]+`)
	reDisallowed  = regexp.MustCompile(`[^a-z0-9_]`)
	reUnderscores = regexp.MustCompile(`_+`)
)

// Key normalizes a raw metadata label into a stable key: lowercased,
// separator runs (whitespace, hyphen, period) collapsed to a single
// underscore, every other non-alphanumeric character dropped, repeated
// underscores collapsed, edge underscores stripped.
//
// Key is total and idempotent; any input maps to some (possibly empty)
// output.
func Key(raw string) string {
	k := strings.ToLower(strings.TrimSpace(raw))
	k = reSeparators.ReplaceAllString(k, "_")
	k = reDisallowed.ReplaceAllString(k, "")
	k = reUnderscores.ReplaceAllString(k, "_")
	return strings.Trim(k, "_")
}
