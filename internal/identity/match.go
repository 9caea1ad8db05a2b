// internal/identity/match.go
package identity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxFirstNameDistance is the exclusive edit distance bound for the same-domain rule.
	MaxFirstNameDistance = 3
	// MinFirstNameRunes keeps very short, different first names from matching under the distance bound.
	// Identical first names always match.
	MinFirstNameRunes = 3
	// MinNormalizedNameLength is the exclusive length bound for the full-name rule.
	MinNormalizedNameLength = 5
)

// profile is the precomputed matching view of one (name, email) pair.
type profile struct {
	developerID int64
	email       string
	domain      string
	first       string
	normalized  string
}

func newProfile(developerID int64, name, email string) profile {
	normalized := normalizeName(name)
	first, _, _ := strings.Cut(normalized, " ")
	return profile{
		developerID: developerID,
		email:       normalizeEmail(email),
		domain:      emailDomain(email),
		first:       first,
		normalized:  normalized,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func emailDomain(email string) string {
	_, domain, ok := strings.Cut(normalizeEmail(email), "@")
	if !ok {
		return ""
	}
	return domain
}

func emailLocalPart(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeName lower-cases, folds accents, drops middle initials and collapses whitespace.
// "José A. García" and "jose  garcia" both normalize to "jose garcia".
func normalizeName(name string) string {
	folded, _, err := transform.String(foldAccents, name)
	if err != nil {
		folded = name
	}
	fields := strings.Fields(strings.ToLower(folded))
	if len(fields) <= 2 {
		return strings.Join(fields, " ")
	}
	kept := []string{fields[0]}
	for _, f := range fields[1 : len(fields)-1] {
		if isInitial(f) {
			continue
		}
		kept = append(kept, f)
	}
	kept = append(kept, fields[len(fields)-1])
	return strings.Join(kept, " ")
}

func isInitial(token string) bool {
	return utf8.RuneCountInString(strings.TrimRight(token, ".")) == 1
}

// sameDomainSimilarFirstName is the second clustering rule.
func sameDomainSimilarFirstName(a, b profile) bool {
	if a.domain == "" || a.domain != b.domain {
		return false
	}
	if a.first == "" || b.first == "" {
		return false
	}
	if a.first == b.first {
		return true
	}
	if utf8.RuneCountInString(a.first) < MinFirstNameRunes || utf8.RuneCountInString(b.first) < MinFirstNameRunes {
		return false
	}
	return levenshtein.ComputeDistance(a.first, b.first) < MaxFirstNameDistance
}

// sameNormalizedName is the third clustering rule.
func sameNormalizedName(a, b profile) bool {
	return len(a.normalized) > MinNormalizedNameLength && a.normalized == b.normalized
}

// matcher holds every known identity in creation order and answers which developer a pair belongs to.
type matcher struct {
	byEmail map[string]int64
	known   []profile
}

func newMatcher() *matcher {
	return &matcher{byEmail: make(map[string]int64)}
}

func (m *matcher) add(p profile) {
	if _, ok := m.byEmail[p.email]; !ok {
		m.byEmail[p.email] = p.developerID
	}
	m.known = append(m.known, p)
}

// match applies the clustering rules in order and returns the first developer found.
func (m *matcher) match(p profile) (developerID int64, rule string, ok bool) {
	if id, found := m.byEmail[p.email]; found {
		return id, "email", true
	}
	for _, k := range m.known {
		if sameDomainSimilarFirstName(p, k) {
			return k.developerID, "domain_first_name", true
		}
	}
	for _, k := range m.known {
		if sameNormalizedName(p, k) {
			return k.developerID, "full_name", true
		}
	}
	return 0, "", false
}
