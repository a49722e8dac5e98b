package forms

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Rule returns an error message for an invalid value, "" otherwise. Rules
// other than Required accept the empty value so optional fields stay optional.
type Rule func(value string) string

func Required(msg string) Rule {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return msg
		}
		return ""
	}
}

// Length requires exactly n runes.
func Length(n int, msg string) Rule {
	return func(v string) string {
		if v == "" || utf8.RuneCountInString(v) == n {
			return ""
		}
		return msg
	}
}

// Numeric requires a non-negative integer.
func Numeric(msg string) Rule {
	return func(v string) string {
		if v == "" {
			return ""
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return msg
		}
		return ""
	}
}

func Check(ok func(value string) bool, msg string) Rule {
	return func(v string) string {
		if v == "" || ok(v) {
			return ""
		}
		return msg
	}
}

// Func adapts a validator that builds its own message.
func Func(fn func(value string) string) Rule {
	return func(v string) string {
		if v == "" {
			return ""
		}
		return fn(v)
	}
}
