package transcode

import (
	"regexp"
	"strings"

	"github.com/Pavel7004/hdrconst/pkg/domain"
)

// Rule turns a matching #define line into a definition. Build receives
// the submatches of Pattern.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Build   func(m []string) *domain.Definition
}

var (
	wrappedU   = regexp.MustCompile(`^#define\s+(\w+)\s+_u\((.*)\)\s*$`)
	bareString = regexp.MustCompile(`^#define\s+(\w+)\s+"(.*)"\s*$`)
)

// DefaultRules returns a fresh copy of the rules for the two shapes used
// by the Raspberry Pi SDK register headers: values wrapped in _u() and
// plain string literals.
func DefaultRules() []Rule {
	return []Rule{wrappedURule, bareStringRule}
}

var wrappedURule = Rule{
	Name:    "wrapped-u",
	Pattern: wrappedU,
	Build: func(m []string) *domain.Definition {
		value := strings.TrimSpace(m[2])
		kind := domain.Numeric
		if isQuoted(value) {
			kind = domain.String
		}
		return &domain.Definition{Name: m[1], Kind: kind, Value: value}
	},
}

var bareStringRule = Rule{
	Name:    "bare-string",
	Pattern: bareString,
	Build: func(m []string) *domain.Definition {
		return &domain.Definition{Name: m[1], Kind: domain.String, Value: `"` + m[2] + `"`}
	},
}

var guards = []*regexp.Regexp{
	regexp.MustCompile(`^#ifndef\b`),
	regexp.MustCompile(`^#define\s+\S+_DEFINED\s*$`),
	regexp.MustCompile(`^#endif\b`),
}

func isGuard(line string) bool {
	for _, g := range guards {
		if g.MatchString(line) {
			return true
		}
	}
	return false
}

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

func match(rules []Rule, line string) (*domain.Definition, string) {
	for _, r := range rules {
		if m := r.Pattern.FindStringSubmatch(line); m != nil {
			return r.Build(m), r.Name
		}
	}
	return nil, ""
}
