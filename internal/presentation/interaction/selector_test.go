package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectorStartsUnset(t *testing.T) {
	s := NewEventSelector()
	assert.Equal(t, -1, s.Current())

	// Movement on an empty list does nothing.
	s.Next()
	s.Prev()
	assert.Equal(t, -1, s.Current())
}

func TestSelectorNavigation(t *testing.T) {
	s := NewEventSelector()
	s.SetCount(3)

	// First movement selects the first entry.
	s.Next()
	assert.Equal(t, 0, s.Current())

	s.Next()
	s.Next()
	assert.Equal(t, 2, s.Current())

	// Clamped at the last entry.
	s.Next()
	assert.Equal(t, 2, s.Current())

	s.Prev()
	s.Prev()
	assert.Equal(t, 0, s.Current())

	// Clamped at the first entry.
	s.Prev()
	assert.Equal(t, 0, s.Current())
}

func TestSelectorPrevFromUnsetSelectsFirst(t *testing.T) {
	s := NewEventSelector()
	s.SetCount(3)
	s.Prev()
	assert.Equal(t, 0, s.Current())
}

func TestSetCountClampsAndClears(t *testing.T) {
	s := NewEventSelector()
	s.SetCount(5)
	for i := 0; i < 5; i++ {
		s.Next()
	}
	assert.Equal(t, 4, s.Current())

	// Shrinking the list pulls the cursor back in range.
	s.SetCount(2)
	assert.Equal(t, 1, s.Current())

	// An empty list clears the selection entirely.
	s.SetCount(0)
	assert.Equal(t, -1, s.Current())

	// Repopulating does not resurrect the selection.
	s.SetCount(3)
	assert.Equal(t, -1, s.Current())
}

func TestClear(t *testing.T) {
	s := NewEventSelector()
	s.SetCount(2)
	s.Next()
	s.Clear()
	assert.Equal(t, -1, s.Current())
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected KeyEvent
	}{
		{
			name:     "plain character",
			input:    []byte{'q'},
			expected: KeyEvent{Key: 'q', Type: KeyChar},
		},
		{
			name:     "ctrl-c arrives as a char",
			input:    []byte{3},
			expected: KeyEvent{Key: 3, Type: KeyChar},
		},
		{
			name:     "carriage return is enter",
			input:    []byte{'\r'},
			expected: KeyEvent{Type: KeyEnter},
		},
		{
			name:     "newline is enter",
			input:    []byte{'\n'},
			expected: KeyEvent{Type: KeyEnter},
		},
		{
			name:     "del is backspace",
			input:    []byte{127},
			expected: KeyEvent{Type: KeyBackspace},
		},
		{
			name:     "bare escape",
			input:    []byte{27},
			expected: KeyEvent{Type: KeyEscape},
		},
		{
			name:     "up arrow",
			input:    []byte{27, '[', 'A'},
			expected: KeyEvent{Type: KeyUp},
		},
		{
			name:     "down arrow",
			input:    []byte{27, '[', 'B'},
			expected: KeyEvent{Type: KeyDown},
		},
		{
			name:     "right arrow",
			input:    []byte{27, '[', 'C'},
			expected: KeyEvent{Type: KeyRight},
		},
		{
			name:     "left arrow",
			input:    []byte{27, '[', 'D'},
			expected: KeyEvent{Type: KeyLeft},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := parseInput(tt.input)
			if assert.NotNil(t, event) {
				assert.Equal(t, tt.expected.Type, event.Type)
				if tt.expected.Type == KeyChar {
					assert.Equal(t, tt.expected.Key, event.Key)
				}
			}
		})
	}
}
