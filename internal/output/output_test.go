package output_test

import (
	"bytes"
	"testing"

	"codeberg.org/mutker/sstat/internal/errors"
	"codeberg.org/mutker/sstat/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink, err := output.Open("stdout", &buf)
	require.NoError(t, err)

	require.NoError(t, sink.Publish("cpu: 07%"))
	assert.Equal(t, "cpu: 07%\n", buf.String())

	require.NoError(t, sink.Publish(""))
	assert.Equal(t, "cpu: 07%\n\n", buf.String())

	require.NoError(t, sink.Close())
}

func TestWriterSinkError(t *testing.T) {
	sink := output.NewWriter(failingWriter{})

	err := sink.Publish("x")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrPublish))
}

func TestOpenUnknown(t *testing.T) {
	_, err := output.Open("lemonbar", &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidOutput))
}
