package output

import (
	"bufio"
	"io"

	"codeberg.org/mutker/sstat/internal/errors"
)

type writerSink struct {
	w *bufio.Writer
}

// NewWriter returns a Sink that writes each line to w and flushes it
// immediately.
func NewWriter(w io.Writer) Sink {
	return &writerSink{w: bufio.NewWriter(w)}
}

func (s *writerSink) Publish(text string) error {
	if _, err := s.w.WriteString(text + "\n"); err != nil {
		return errors.New().Wrap(errors.ErrPublish, err)
	}
	if err := s.w.Flush(); err != nil {
		return errors.New().Wrap(errors.ErrPublish, err)
	}

	return nil
}

func (s *writerSink) Close() error {
	return s.w.Flush()
}
