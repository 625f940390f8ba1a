package flow

import "github.com/harmos/intakebot/internal/models"

// SongPicker holds the in-progress song selection for the music step. The
// picker owns duplicate suppression and the selection cap; the lookup
// adapter deliberately does not. Not safe for concurrent use on its own: it
// is owned by a session and mutated under the session lock.
type SongPicker struct {
	max        int
	selections []models.SongChoice
}

// NewSongPicker creates a picker accepting up to max selections.
func NewSongPicker(max int) *SongPicker {
	return &SongPicker{max: max}
}

// Select adds a song choice. A choice equal to an already-held one is
// rejected with ErrSongDuplicate; a choice beyond the cap with
// ErrSongLimitReached.
func (p *SongPicker) Select(choice models.SongChoice) error {
	if len(p.selections) >= p.max {
		return models.ErrSongLimitReached
	}
	for _, held := range p.selections {
		if held.Equal(choice) {
			return models.ErrSongDuplicate
		}
	}
	p.selections = append(p.selections, choice)
	return nil
}

// Remove drops the selection at the given index.
func (p *SongPicker) Remove(index int) error {
	if index < 0 || index >= len(p.selections) {
		return models.ErrSongIndex
	}
	p.selections = append(p.selections[:index], p.selections[index+1:]...)
	return nil
}

// Selections returns the held choices in selection order.
func (p *SongPicker) Selections() []models.SongChoice {
	out := make([]models.SongChoice, len(p.selections))
	copy(out, p.selections)
	return out
}

// CanSubmit reports whether exactly the required number of songs is held.
func (p *SongPicker) CanSubmit() bool {
	return len(p.selections) == p.max
}
