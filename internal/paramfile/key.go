package paramfile

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxKeyNumber is the largest community type number a key can carry.
const MaxKeyNumber = 99

// KeyFromNumber renders a community type number in canonical CMTnn form.
func KeyFromNumber(n int) (string, error) {
	if n < 0 || n > MaxKeyNumber {
		return "", fmt.Errorf("%w: %d out of range 0..%d", ErrInvalidKey, n, MaxKeyNumber)
	}
	return fmt.Sprintf("CMT%02d", n), nil
}

// NormalizeKey accepts "5", "05", "cmt5" or "CMT05" and returns "CMT05".
func NormalizeKey(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if len(s) >= 3 && strings.EqualFold(s[:3], "CMT") {
		s = s[3:]
	}
	if s == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, raw)
	}
	n, err := strconv.Atoi(s)
	if err != nil || strings.ContainsAny(s, "+-") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, raw)
	}
	return KeyFromNumber(n)
}

// KeyNumber returns the number inside a key, e.g. 5 for "CMT05".
func KeyNumber(key string) (int, error) {
	k, err := NormalizeKey(key)
	if err != nil {
		return 0, err
	}
	n, _ := strconv.Atoi(k[3:])
	return n, nil
}
