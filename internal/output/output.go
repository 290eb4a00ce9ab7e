// Package output delivers rendered status lines to their consumer.
package output

import (
	"io"

	"codeberg.org/mutker/sstat/internal/config"
	"codeberg.org/mutker/sstat/internal/errors"
)

// Sink receives one line per cycle. Publishing an empty line clears the
// status.
type Sink interface {
	Publish(text string) error
	Close() error
}

// Open returns the sink selected by name.
func Open(name string, stdout io.Writer) (Sink, error) {
	switch name {
	case config.OutputStdout:
		return NewWriter(stdout), nil
	case config.OutputXRoot:
		return OpenXRoot()
	default:
		return nil, errors.New().WithData(errors.ErrInvalidOutput, name)
	}
}
