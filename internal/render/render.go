// Package render turns the configured providers into one status line.
package render

import (
	"fmt"

	"codeberg.org/mutker/sstat/internal/errors"
	"codeberg.org/mutker/sstat/internal/provider"
)

// Renderer substitutes provider values into a printf-style template.
type Renderer struct {
	format    string
	providers []provider.Provider
	args      []any
}

// New returns a Renderer for format. The number of string verbs in format
// must equal the number of providers.
func New(format string, providers []provider.Provider) (*Renderer, error) {
	errFactory := errors.New()

	n, err := CountVerbs(format)
	if err != nil {
		return nil, errFactory.WrapWithData(errors.ErrInvalidFormat, err, format)
	}
	if n != len(providers) {
		return nil, errFactory.WithData(errors.ErrInvalidFormat, struct {
			Verbs  int
			Fields int
		}{
			Verbs:  n,
			Fields: len(providers),
		})
	}

	return &Renderer{
		format:    format,
		providers: providers,
		args:      make([]any, len(providers)),
	}, nil
}

// Render invokes every provider once, in template order, and returns the
// formatted frame. Render is not safe for concurrent use.
func (r *Renderer) Render() string {
	for i, p := range r.providers {
		r.args[i] = p.Value()
	}

	return fmt.Sprintf(r.format, r.args...)
}

// Clear returns the frame published on shutdown.
func (*Renderer) Clear() string {
	return ""
}
