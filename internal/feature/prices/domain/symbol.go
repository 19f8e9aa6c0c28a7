package domain

import (
	"regexp"
	"strings"
)

var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9^&_-][A-Za-z0-9.^&_-]*$`)

// ValidSymbol reports whether s is safe to use as a file name stem.
// Anything that could escape the data directory is rejected.
func ValidSymbol(s string) bool {
	if s == "" || len(s) > 32 || strings.Contains(s, "..") {
		return false
	}
	return symbolPattern.MatchString(s)
}

// FileStem strips the first matching market suffix from a provider key,
// e.g. "TCS.NS" -> "TCS" with suffixes [".NS"]. Matching is case-insensitive.
func FileStem(providerKey string, suffixes []string) string {
	upper := strings.ToUpper(providerKey)
	for _, sfx := range suffixes {
		if sfx == "" {
			continue
		}
		if strings.HasSuffix(upper, strings.ToUpper(sfx)) && len(providerKey) > len(sfx) {
			return providerKey[:len(providerKey)-len(sfx)]
		}
	}
	return providerKey
}
