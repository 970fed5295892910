package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reCategory = regexp.MustCompile(`^[\p{L}\p{N} '&.,_-]{1,64}$`)
	reSID      = regexp.MustCompile(`^[A-Za-z0-9-]{8,64}$`)
)

// ID validates a catalog product id (positive integer).
func ID(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 10 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 1
	}
	return ClampQty(n)
}

// ClampQty keeps a requested quantity within 1..50.
func ClampQty(n int) int {
	if n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	} // clamp to avoid abuse
	return n
}

// Search accepts free text up to 50 runes. Control characters are rejected;
// an empty string is valid and matches everything.
func Search(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !utf8.ValidString(s) {
		return "", false
	}
	if utf8.RuneCountInString(s) > 50 {
		s = string([]rune(s)[:50])
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return "", false
		}
	}
	return s, true
}

// Category validates a category name such as "men's clothing" or "all".
func Category(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reCategory.MatchString(s)
}

// SessionID validates a sid cookie value.
func SessionID(s string) bool { return reSID.MatchString(s) }
