package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleDefaults(t *testing.T) {
	s := NewSampleOptions(25, 10, 1)
	assert.Equal(t, 25.0, s.Size())
	assert.Equal(t, 0.25, s.Sample())
	assert.Equal(t, "kelheim-v3.1-25pct", s.AdjustName("kelheim-v3.1-25pct"))
}

func TestSampleAdjustName(t *testing.T) {
	s := NewSampleOptions(25, 10, 1)
	require.NoError(t, s.Select(1))
	assert.Equal(t, 0.01, s.Sample())
	assert.Equal(t, "./output/output-kelheim-v3.1-1pct", s.AdjustName("./output/output-kelheim-v3.1-25pct"))
	assert.Equal(t, "kelheim-v3.0-1pct.plans.xml.gz", s.AdjustName("kelheim-v3.0-25pct.plans.xml.gz"))
	assert.Equal(t, "run-1pct", s.AdjustName("run-25.0pct"))
}

func TestSampleSelectErrors(t *testing.T) {
	s := NewSampleOptions(25, 10, 1)
	assert.Error(t, s.Select(5))
	require.NoError(t, s.Select(10))
	require.NoError(t, s.Select(10))
	assert.Error(t, s.Select(1))
}
