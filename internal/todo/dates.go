package todo

import (
	"fmt"
	"strings"
	"time"
)

// dueDateLayouts covers what browser date inputs and people actually submit.
var dueDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// parseDueDate parses a submitted due date and normalizes it to YYYY-MM-DD.
// The time component, if any, is discarded.
func parseDueDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}
