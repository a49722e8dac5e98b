// Package mask renders sensitive values (phone numbers, ID card numbers) in a
// fixed partial form until a row is revealed.
package mask

import "strings"

// Phone keeps runes 0..3 and 7..11 around a fixed "****".
func Phone(s string) string {
	r := []rune(s)
	return string(span(r, 0, 3)) + "****" + string(span(r, 7, 11))
}

// IDCard keeps the first six runes followed by twelve asterisks.
func IDCard(s string) string {
	return string(span([]rune(s), 0, 6)) + strings.Repeat("*", 12)
}

// span is a substring that clamps out-of-range bounds instead of panicking.
func span(r []rune, from, to int) []rune {
	if from > len(r) {
		from = len(r)
	}
	if to > len(r) {
		to = len(r)
	}
	if from > to {
		return nil
	}
	return r[from:to]
}

// Reveal tracks the single row whose sensitive field is shown in clear.
type Reveal struct {
	key string
}

// Toggle reveals key, or hides it again when it is already revealed.
// Revealing a row hides any other.
func (r *Reveal) Toggle(key string) {
	if r.key == key {
		r.key = ""
		return
	}
	r.key = key
}

// Visible reports whether key is currently revealed.
func (r *Reveal) Visible(key string) bool { return key != "" && r.key == key }

// Clear hides every row.
func (r *Reveal) Clear() { r.key = "" }

// Show returns value in clear when key is revealed and masked otherwise.
func (r *Reveal) Show(key, value string, masker func(string) string) string {
	if r.Visible(key) {
		return value
	}
	return masker(value)
}
