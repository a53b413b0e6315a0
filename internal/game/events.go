package game

import "sort"

// Event is a type name plus a set of string attributes, kept sorted
// by key for deterministic ordering within a transaction.
type Event struct {
	Type  string
	Attrs map[string]string
}

func newEvent(typ string, attrs map[string]string) Event {
	return Event{Type: typ, Attrs: attrs}
}

// SortedKeys returns the event's attribute keys in ascending order.
func (e Event) SortedKeys() []string {
	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
