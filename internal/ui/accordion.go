package ui

import "sort"

// AccordionState is the open/closed state of the disclosures of one rendered
// tree. Keys are closed until toggled and toggles are independent. The zero
// value is ready to use. It is not safe for concurrent use; the surface that
// owns the tree owns its state and drops it with the tree.
type AccordionState struct {
	open map[string]bool
}

func (s *AccordionState) IsOpen(key string) bool {
	return s.open[key]
}

// Toggle flips key and returns its new state.
func (s *AccordionState) Toggle(key string) bool {
	if s.open == nil {
		s.open = make(map[string]bool)
	}
	if s.open[key] {
		delete(s.open, key)
		return false
	}
	s.open[key] = true
	return true
}

// Expand opens every disclosure under root.
func (s *AccordionState) Expand(root *Element) {
	if s.open == nil {
		s.open = make(map[string]bool)
	}
	Walk(root, func(e *Element) bool {
		if e.Type == TypeDisclosure {
			s.open[e.Key] = true
		}
		return true
	})
}

// OpenKeys lists the open keys in sorted order.
func (s *AccordionState) OpenKeys() []string {
	keys := make([]string, 0, len(s.open))
	for k := range s.open {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
