package utils

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NormalizeName lower-cases s, turns punctuation into spaces and collapses
// whitespace.
func NormalizeName(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// TokenSortRatio compares two names ignoring word order. It returns a score
// between 0 and 100, 100 meaning identical after normalisation.
func TokenSortRatio(a, b string) int {
	a, b = sortedTokens(a), sortedTokens(b)
	if a == "" && b == "" {
		return 100
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	dist := levenshtein.ComputeDistance(a, b)
	ratio := 100 * float64(longest-dist) / float64(longest)
	if ratio < 0 {
		return 0
	}
	return int(ratio + 0.5)
}

func sortedTokens(s string) string {
	tokens := strings.Fields(NormalizeName(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// BestMatch returns the index of the candidate closest to name, provided its
// TokenSortRatio reaches threshold. It returns -1 otherwise.
func BestMatch(name string, candidates []string, threshold int) (index int, score int) {
	index = -1
	for i, c := range candidates {
		if c == "" {
			continue
		}
		if s := TokenSortRatio(name, c); s > score {
			index, score = i, s
		}
	}
	if score < threshold {
		return -1, score
	}
	return index, score
}
