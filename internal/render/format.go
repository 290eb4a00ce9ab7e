package render

import (
	"fmt"
	"strings"
)

const formatFlags = "+-# 0"

// Verbs returns the printf verbs in format that consume an argument, in
// order. Literal %% is skipped. Argument indexes and '*' widths are rejected
// because they would break the one-verb-per-argument mapping.
func Verbs(format string) ([]byte, error) {
	var verbs []byte
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		if i < len(format) && format[i] == '%' {
			continue
		}

		for i < len(format) && strings.IndexByte(formatFlags, format[i]) >= 0 {
			i++
		}
		for i < len(format) && isDigit(format[i]) {
			i++
		}
		if i < len(format) && format[i] == '.' {
			i++
			for i < len(format) && isDigit(format[i]) {
				i++
			}
		}

		if i >= len(format) {
			return nil, fmt.Errorf("incomplete verb at end of %q", format)
		}
		if !isLetter(format[i]) {
			return nil, fmt.Errorf("unsupported verb %%%c in %q", format[i], format)
		}
		verbs = append(verbs, format[i])
	}

	return verbs, nil
}

// CountVerbs returns the number of fields a status template expects. Every
// field is a string, so only %s, %q and %v are accepted.
func CountVerbs(format string) (int, error) {
	verbs, err := Verbs(format)
	if err != nil {
		return 0, err
	}

	for _, v := range verbs {
		if v != 's' && v != 'q' && v != 'v' {
			return 0, fmt.Errorf("verb %%%c cannot format a field in %q", v, format)
		}
	}

	return len(verbs), nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
