package provider_test

import (
	"errors"
	"testing"

	"codeberg.org/mutker/sstat/internal/provider"
	"github.com/stretchr/testify/assert"
)

func TestGuardSubstitutesSentinel(t *testing.T) {
	fail := true
	reader := provider.ReaderFunc(func() (string, error) {
		if fail {
			return "garbage", errors.New("read failed")
		}
		return "42%", nil
	})

	p := provider.Guard("battery_perc", reader, "n/a")
	assert.Equal(t, "battery_perc", p.Name())
	assert.Equal(t, "n/a", p.Value())

	// next cycle retries naturally
	fail = false
	assert.Equal(t, "42%", p.Value())
}

func TestStatic(t *testing.T) {
	p := provider.Static("label", "vol:")
	assert.Equal(t, "label", p.Name())
	assert.Equal(t, "vol:", p.Value())
}
