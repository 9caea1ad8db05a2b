// internal/identity/match_test.go
package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"Ada Lovelace", "ada lovelace"},
		{"  Ada   Lovelace ", "ada lovelace"},
		{"José A. García", "jose garcia"},
		{"Jose Garcia", "jose garcia"},
		{"John R R Tolkien", "john tolkien"},
		{"Björn", "bjorn"},
		{"", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeName(tc.in))
		})
	}
}

func TestSameDomainSimilarFirstName(t *testing.T) {
	testCases := []struct {
		name string
		a, b profile
		want bool
	}{
		{
			name: "one edit apart on the same domain",
			a:    newProfile(0, "Ada Lovelace", "ada@acme.com"),
			b:    newProfile(0, "Adah King", "a.king@acme.com"),
			want: true,
		},
		{
			name: "different domains",
			a:    newProfile(0, "Ada Lovelace", "ada@acme.com"),
			b:    newProfile(0, "Ada Lovelace", "ada@other.org"),
			want: false,
		},
		{
			name: "distant first names",
			a:    newProfile(0, "Mark", "mark@acme.com"),
			b:    newProfile(0, "Susan", "susan@acme.com"),
			want: false,
		},
		{
			name: "short first names are ignored",
			a:    newProfile(0, "Li Wu", "li@acme.com"),
			b:    newProfile(0, "Bo Chen", "bo@acme.com"),
			want: false,
		},
		{
			name: "identical short first names",
			a:    newProfile(0, "Bo Smith", "bo@acme.com"),
			b:    newProfile(0, "Bo Smith-Jones", "bsj@acme.com"),
			want: true,
		},
		{
			name: "no domain",
			a:    newProfile(0, "Ada", "ada"),
			b:    newProfile(0, "Ada", "ada"),
			want: false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sameDomainSimilarFirstName(tc.a, tc.b))
		})
	}
}

func TestSameNormalizedName(t *testing.T) {
	assert.True(t, sameNormalizedName(
		newProfile(0, "José García", "jose@acme.com"),
		newProfile(0, "Jose A. Garcia", "jg@other.org"),
	))
	// "li wu" is not longer than five characters.
	assert.False(t, sameNormalizedName(
		newProfile(0, "Li Wu", "li@a.com"),
		newProfile(0, "Li Wu", "wu@b.com"),
	))
}

func TestMatcher_RuleOrder(t *testing.T) {
	m := newMatcher()
	m.add(newProfile(1, "Ada Lovelace", "ada@acme.com"))
	m.add(newProfile(2, "Adah King", "adah@personal.io"))

	id, rule, ok := m.match(newProfile(0, "Someone Else", "ADA@acme.com"))
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "email", rule)

	id, rule, ok = m.match(newProfile(0, "Adah King", "a.king@acme.com"))
	assert.True(t, ok)
	assert.Equal(t, int64(1), id, "domain rule is tried before the full-name rule")
	assert.Equal(t, "domain_first_name", rule)

	id, rule, ok = m.match(newProfile(0, "Adah King", "adah@elsewhere.net"))
	assert.True(t, ok)
	assert.Equal(t, int64(2), id)
	assert.Equal(t, "full_name", rule)

	_, _, ok = m.match(newProfile(0, "Grace Hopper", "grace@navy.mil"))
	assert.False(t, ok)
}
