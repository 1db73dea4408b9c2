package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// ErrIDRequired indicates no id was provided.
var ErrIDRequired = errors.New("id required")

// ParseID parses a positive numeric id from the first argument.
// Ids are assigned by the server and are always positive.
func ParseID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrIDRequired
	}

	ref := args[0]
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("invalid id: %s", ref)
	}
	id, err := strconv.Atoi(ref)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id: %s", ref)
	}
	return id, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
