// Package input normalizes key presses and feeds parry presses to the judge.
package input

import (
	"fmt"
	"strings"
	"unicode"
)

// Key is a normalized key name. Single characters fold to lower case,
// the space bar is named "space".
type Key string

// KeySpace is the space bar.
const KeySpace Key = "space"

// ParseKey normalizes a configured key name.
func ParseKey(s string) (Key, error) {
	if s == " " {
		return KeySpace, nil
	}
	name := strings.ToLower(strings.TrimSpace(s))
	if name == string(KeySpace) {
		return KeySpace, nil
	}
	runes := []rune(name)
	if len(runes) != 1 {
		return "", fmt.Errorf("unsupported parry key %q", s)
	}
	if !unicode.IsPrint(runes[0]) {
		return "", fmt.Errorf("unsupported parry key %q", s)
	}
	return Key(runes[0]), nil
}

// FromRune returns the key for a typed character.
func FromRune(r rune) Key {
	if r == ' ' {
		return KeySpace
	}
	return Key(unicode.ToLower(r))
}
