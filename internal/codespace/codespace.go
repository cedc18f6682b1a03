// Package codespace derives and checks the regular expressions that define
// which code strings an event accepts.
package codespace

import (
	"fmt"
	"regexp"
	"strings"
)

// RangeStart is the first code number handed out for any participant class.
const RangeStart = 1000

// Generate builds a pattern of the form ^PREFIX-(alt1|alt2|...)$ whose
// alternatives together match exactly the integers in
// [RangeStart, RangeStart+count-1] and nothing else.
//
// The range is split into one T[0-9]{3} term per complete thousand block,
// then the trailing partial block is decomposed into at most one
// full-hundred term, at most one full-ten term, and a final single-digit
// range term. Generate(prefix, 2501) == ^PREFIX-(1[0-9]{3}|2[0-9]{3}|3[0-4][0-9]{2}|3500)$.
//
// An empty prefix or a count below 1 yields "": the caller treats that as
// "not generated" rather than an error.
func Generate(prefix string, count int) string {
	if prefix == "" || count < 1 {
		return ""
	}

	end := RangeStart + count - 1
	endThousand := end / 1000

	var terms []string
	for t := RangeStart / 1000; t < endThousand; t++ {
		terms = append(terms, fmt.Sprintf("%d[0-9]{3}", t))
	}

	lastDigits := end - endThousand*1000
	if lastDigits == 999 {
		// The remainder is itself a full thousand.
		terms = append(terms, fmt.Sprintf("%d[0-9]{3}", endThousand))
	} else {
		hundreds := lastDigits / 100
		tens := lastDigits % 100 / 10
		ones := lastDigits % 10

		if hundreds > 0 {
			terms = append(terms, fmt.Sprintf("%d%s[0-9]{2}", endThousand, digitRange(hundreds-1)))
		}
		if tens > 0 {
			terms = append(terms, fmt.Sprintf("%d%d%s[0-9]", endThousand, hundreds, digitRange(tens-1)))
		}
		terms = append(terms, fmt.Sprintf("%d%d%d%s", endThousand, hundreds, tens, digitRange(ones)))
	}

	return fmt.Sprintf("^%s-(%s)$", prefix, strings.Join(terms, "|"))
}

// digitRange returns a term matching one digit in [0, max].
func digitRange(max int) string {
	switch max {
	case 0:
		return "0"
	case 9:
		return "[0-9]"
	default:
		return fmt.Sprintf("[0-%d]", max)
	}
}

// Validate reports whether pattern compiles as a regular expression.
// It gates every write of an event's pattern fields.
func Validate(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("pattern is empty")
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("compile pattern: %w", err)
	}
	return nil
}
