package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/wheelibin/phuey/internal/hue"
)

var ErrMalformedCommand = errors.New("malformed command")

// Parse reads a light command such as "on=true,bri=100,xy=0.3:0.4".
// true/false become bools, integers become ints, "a:b" pairs of numbers
// become xy coordinates and anything else stays a string.
func Parse(s string) (hue.AttributeSet, error) {
	entries := lo.Filter(strings.Split(s, ","), func(e string, _ int) bool {
		return strings.TrimSpace(e) != ""
	})
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %q is empty", ErrMalformedCommand, s)
	}

	attrs := hue.AttributeSet{}
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q is not key=value", ErrMalformedCommand, entry)
		}
		if _, dup := attrs[key]; dup {
			return nil, fmt.Errorf("%w: %q given twice", ErrMalformedCommand, key)
		}
		attrs[key] = parseValue(strings.TrimSpace(value))
	}
	return attrs, nil
}

func parseValue(v string) any {
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	if x, y, ok := strings.Cut(v, ":"); ok {
		fx, errX := strconv.ParseFloat(x, 64)
		fy, errY := strconv.ParseFloat(y, 64)
		if errX == nil && errY == nil {
			return []float64{fx, fy}
		}
	}
	return v
}

// Merge layers commands left to right, later keys win.
func Merge(sets ...hue.AttributeSet) hue.AttributeSet {
	maps := lo.Map(sets, func(s hue.AttributeSet, _ int) map[string]any { return s })
	return hue.AttributeSet(lo.Assign(maps...))
}
