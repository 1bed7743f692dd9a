package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ticketIDRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*)-(\d+)$`)

// TicketID holds the structured parts of a prefixed ticket identifier such
// as "TKT-1001".
type TicketID struct {
	Prefix string
	Seq    int
}

// String renders the identifier back into its wire form.
func (t TicketID) String() string {
	return fmt.Sprintf("%s-%d", t.Prefix, t.Seq)
}

// ParseTicketID extracts the prefix and numeric sequence from a ticket ID.
func ParseTicketID(raw string) (TicketID, error) {
	s := strings.TrimSpace(raw)
	matches := ticketIDRe.FindStringSubmatch(s)
	if matches == nil {
		return TicketID{}, fmt.Errorf("unable to parse ticket id: %q", raw)
	}
	seq, err := strconv.Atoi(matches[2])
	if err != nil {
		return TicketID{}, fmt.Errorf("unable to parse ticket id: %q", raw)
	}
	return TicketID{Prefix: matches[1], Seq: seq}, nil
}

// MaxSeq returns the highest numeric sequence among the given ticket IDs for
// the prefix, ignoring IDs that do not parse or carry another prefix. Used to
// reconcile the persisted counter after an import.
func MaxSeq(prefix string, ids []string) int {
	max := 0
	for _, id := range ids {
		parsed, err := ParseTicketID(id)
		if err != nil || !strings.EqualFold(parsed.Prefix, prefix) {
			continue
		}
		if parsed.Seq > max {
			max = parsed.Seq
		}
	}
	return max
}
