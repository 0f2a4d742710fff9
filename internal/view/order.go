package view

import (
	"fmt"
	"strings"
)

// Order selects how the view presents buffered items.
type Order int

const (
	// Ascending shows the oldest item first.
	Ascending Order = iota
	// Descending shows the newest item first.
	Descending
)

func (o Order) String() string {
	switch o {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// Toggle returns the opposite order.
func (o Order) Toggle() Order {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// ParseOrder accepts "asc", "ascending", "desc" or "descending".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "oldest":
		return Ascending, nil
	case "desc", "descending", "newest":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("unknown order %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Order) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Order) UnmarshalText(text []byte) error {
	parsed, err := ParseOrder(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
