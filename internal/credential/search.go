package credential

import "strings"

// SearchField selects which attribute a lookup term is matched against.
type SearchField string

const (
	SearchName     SearchField = "name"
	SearchIdentity SearchField = "national_id"
	SearchPhone    SearchField = "phone"
	SearchCompany  SearchField = "company"
	SearchAny      SearchField = "any"
)

// ParseSearchField normalizes a client-supplied field name. An empty field
// defaults to "any", matching the search page's behaviour.
func ParseSearchField(s string) (SearchField, bool) {
	switch f := SearchField(strings.ToLower(strings.TrimSpace(s))); f {
	case SearchName, SearchIdentity, SearchPhone, SearchCompany, SearchAny:
		return f, true
	case "":
		return SearchAny, true
	default:
		return "", false
	}
}

// Filter returns the credentials whose selected field contains the term,
// case-insensitively. The term is matched as one literal substring, never
// tokenized, and the corpus order is preserved: badge lookup needs
// deterministic, auditable results, not ranking.
func Filter(term string, field SearchField, corpus []Credential) []Credential {
	needle := strings.ToLower(term)
	matched := make([]Credential, 0, len(corpus))
	for i := range corpus {
		if matchesField(&corpus[i], needle, field) {
			matched = append(matched, corpus[i])
		}
	}
	return matched
}

func matchesField(c *Credential, needle string, field SearchField) bool {
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), needle)
	}

	switch field {
	case SearchName:
		return contains(c.SubjectName)
	case SearchIdentity:
		return contains(c.IdentityNumber)
	case SearchPhone:
		return contains(c.ContactPhone)
	case SearchCompany:
		return contains(c.Company)
	default:
		return contains(c.SubjectName) ||
			contains(c.IdentityNumber) ||
			contains(c.ContactPhone) ||
			contains(c.Company)
	}
}
