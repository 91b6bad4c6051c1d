package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrIDRequired indicates a missing positional id.
var ErrIDRequired = errors.New("id required")

// ParseID parses a positive numeric entity id.
func ParseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrIDRequired
	}
	if !isAllDigits(s) {
		return 0, fmt.Errorf("invalid id: %s", s)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id: %s", s)
	}
	return id, nil
}

// ParseIDs parses exactly n leading positional ids. what names each id in
// error messages, e.g. "task id".
func ParseIDs(args []string, what ...string) ([]int64, error) {
	ids := make([]int64, len(what))
	for i, name := range what {
		if i >= len(args) {
			return nil, fmt.Errorf("%s required", name)
		}
		id, err := ParseID(args[i])
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %s", name, args[i])
		}
		ids[i] = id
	}
	return ids, nil
}

// idList collects repeated id flags, e.g. --label 7 --label 9.
type idList []int64

func (l *idList) String() string {
	parts := make([]string, len(*l))
	for i, id := range *l {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func (l *idList) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		id, err := ParseID(part)
		if err != nil {
			return err
		}
		*l = append(*l, id)
	}
	return nil
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
