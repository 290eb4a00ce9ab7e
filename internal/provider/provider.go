// Package provider defines the unit the status line is built from: something
// that yields one display string per cycle.
package provider

import (
	"codeberg.org/mutker/sstat/internal/logger"
)

// Reader produces the current value of one metric. Readers fail fast; the
// caller decides what to show when they fail.
type Reader interface {
	Read() (string, error)
}

// ReaderFunc adapts a plain function to Reader.
type ReaderFunc func() (string, error)

func (f ReaderFunc) Read() (string, error) {
	return f()
}

// Provider yields exactly one field value per call and never fails.
type Provider interface {
	Name() string
	Value() string
}

type guarded struct {
	name    string
	reader  Reader
	unknown string
}

// Guard wraps r so that any error is replaced by the unknown sentinel.
func Guard(name string, r Reader, unknown string) Provider {
	return &guarded{
		name:    name,
		reader:  r,
		unknown: unknown,
	}
}

func (g *guarded) Name() string {
	return g.name
}

func (g *guarded) Value() string {
	value, err := g.reader.Read()
	if err != nil {
		logger.Debug().Err(err).Str("field", g.name).Msg("Field unavailable")
		return g.unknown
	}

	return value
}

// Static returns a Provider with a fixed value.
func Static(name, value string) Provider {
	return &guarded{
		name: name,
		reader: ReaderFunc(func() (string, error) {
			return value, nil
		}),
		unknown: value,
	}
}
