package deal

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the lifecycle state of a deal.
type Status int

const (
	// StatusUnspecified is the zero value and never stored.
	StatusUnspecified Status = iota
	// StatusOpen holds the creator's deposit in custody awaiting acceptance.
	StatusOpen
	// StatusExecuted means both legs were delivered.
	StatusExecuted
	// StatusCancelled means the creator reclaimed the deposit before timeout.
	StatusCancelled
	// StatusWithdrawn means the creator reclaimed the deposit after timeout.
	StatusWithdrawn
)

var statusNames = map[Status]string{
	StatusOpen:      "open",
	StatusExecuted:  "executed",
	StatusCancelled: "cancelled",
	StatusWithdrawn: "withdrawn",
}

// ParseStatus parses the lowercase wire name of a status.
func ParseStatus(raw string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for status, name := range statusNames {
		if name == normalized {
			return status, nil
		}
	}
	return StatusUnspecified, fmt.Errorf("unknown deal status %q", raw)
}

// String returns the lowercase wire name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unspecified"
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusExecuted || s == StatusCancelled || s == StatusWithdrawn
}

// CanTransitionTo reports whether s may move to next. Only Open moves, and only
// to a terminal state.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusOpen && next.Terminal()
}

// MarshalJSON encodes the status as its wire name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a wire name.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
