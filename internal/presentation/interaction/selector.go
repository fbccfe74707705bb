package interaction

// EventSelector tracks which calendar entry the selection cursor is on.
// The entry list it indexes into is always ordered by start time.
type EventSelector struct {
	index int
	count int
}

// NewEventSelector creates a selector with nothing selected.
func NewEventSelector() *EventSelector {
	return &EventSelector{index: -1}
}

// SetCount clamps the cursor to a new list length. An empty list clears
// the selection; a previously unset cursor stays unset.
func (s *EventSelector) SetCount(count int) {
	s.count = count
	if count == 0 {
		s.index = -1
		return
	}
	if s.index >= count {
		s.index = count - 1
	}
}

// Next moves the cursor down the list, selecting the first entry when
// nothing is selected yet.
func (s *EventSelector) Next() {
	if s.count == 0 {
		return
	}
	if s.index < s.count-1 {
		s.index++
	}
}

// Prev moves the cursor up the list.
func (s *EventSelector) Prev() {
	if s.count == 0 {
		return
	}
	if s.index == -1 {
		s.index = 0
		return
	}
	if s.index > 0 {
		s.index--
	}
}

// Clear drops the selection.
func (s *EventSelector) Clear() {
	s.index = -1
}

// Current returns the selected index, -1 when nothing is selected.
func (s *EventSelector) Current() int {
	return s.index
}
