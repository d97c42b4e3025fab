// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"strings"
)

var ErrInvalidSelections = errors.New("invalid stored selections")

// FormatSelections stores a selection vector as a string of '0' and '1'.
func FormatSelections(selections []bool) string {
	var b strings.Builder
	b.Grow(len(selections))
	for _, selected := range selections {
		if selected {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ParseSelections is the inverse of FormatSelections.
func ParseSelections(s string) ([]bool, error) {
	selections := make([]bool, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			selections[i] = true
		case '0':
		default:
			return nil, ErrInvalidSelections
		}
	}
	return selections, nil
}
