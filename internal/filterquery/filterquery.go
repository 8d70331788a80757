// Package filterquery compiles the textual filter mini-language into a
// predicate over row names. Terms separated by whitespace AND together:
// a plain term is a case-insensitive substring test, "!term" negates it,
// and "ext:go" tests the file extension.
package filterquery

import (
	"path"
	"strings"
)

// Predicate decides whether a row with the given display name and
// lower-cased extension (including the leading dot) passes the filter.
type Predicate func(name, extLower string) bool

// matchAll is the predicate for blank queries.
func matchAll(string, string) bool { return true }

// Compile parses query into a Predicate. Blank or whitespace-only queries
// compile to an always-true predicate.
func Compile(query string) Predicate {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return matchAll
	}

	type clause struct {
		substr  string
		ext     string
		negated bool
	}

	clauses := make([]clause, 0, len(terms))
	for _, term := range terms {
		switch {
		case strings.HasPrefix(strings.ToLower(term), "ext:"):
			ext := strings.ToLower(term[len("ext:"):])
			ext = strings.TrimPrefix(ext, ".")
			if ext == "" {
				continue
			}
			clauses = append(clauses, clause{ext: "." + ext})
		case strings.HasPrefix(term, "!"):
			sub := strings.ToLower(term[1:])
			if sub == "" {
				continue
			}
			clauses = append(clauses, clause{substr: sub, negated: true})
		default:
			clauses = append(clauses, clause{substr: strings.ToLower(term)})
		}
	}
	if len(clauses) == 0 {
		return matchAll
	}

	return func(name, extLower string) bool {
		lower := strings.ToLower(name)
		for _, c := range clauses {
			if c.ext != "" {
				if extLower != c.ext {
					return false
				}
				continue
			}
			if strings.Contains(lower, c.substr) == c.negated {
				return false
			}
		}
		return true
	}
}

// ExtLower returns the lower-cased extension of name, including the leading
// dot, as the Predicate expects it.
func ExtLower(name string) string {
	return strings.ToLower(path.Ext(name))
}
