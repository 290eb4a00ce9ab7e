package audio

import "sync/atomic"

// State is the audio part of the status line. A State is never modified
// after it has been published.
type State struct {
	Volume    string
	MicVolume string
	Profile   string
}

// Unavailable returns the State shown before the first enumeration and
// after a connection failure.
func Unavailable(unknown string) State {
	return State{
		Volume:    unknown,
		MicVolume: unknown,
		Profile:   unknown,
	}
}

// Store holds the current State. Publish replaces all fields at once, so a
// reader never sees the volume of one device next to the profile of another.
type Store struct {
	current atomic.Pointer[State]
}

func NewStore(initial State) *Store {
	s := &Store{}
	s.Publish(initial)

	return s
}

// Load returns a copy of the current State.
func (s *Store) Load() State {
	return *s.current.Load()
}

func (s *Store) Publish(st State) {
	s.current.Store(&st)
}
