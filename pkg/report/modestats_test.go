package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `iteration;bike;car;pt;ride;walk
0;0.05;0.55;0.07;0.13;0.2
1;0.06;0.54;0.07;0.13;0.2
2;0.07;0.52;0.08;0.13;0.2
`

func TestParseModeStats(t *testing.T) {
	ms, err := ParseModeStats(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"bike", "car", "pt", "ride", "walk"}, ms.Modes)
	assert.Equal(t, []int{0, 1, 2}, ms.Iterations)
	assert.InDelta(t, 0.52, ms.Final()["car"], 1e-9)
	assert.Equal(t, "car", ms.Ranked()[0])
}

func TestParseModeStatsErrors(t *testing.T) {
	_, err := ParseModeStats(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoIterations)

	_, err = ParseModeStats(strings.NewReader("iteration;car\n"))
	assert.ErrorIs(t, err, ErrNoIterations)

	_, err = ParseModeStats(strings.NewReader("mode;car\n0;1\n"))
	assert.Error(t, err)

	_, err = ParseModeStats(strings.NewReader("iteration;car\n0;abc\n"))
	assert.Error(t, err)
}

func TestRenderModeStats(t *testing.T) {
	ms, err := ParseModeStats(strings.NewReader(sample))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, ms.Render(&buf, "Kelheim mode share"))
	html := buf.String()
	assert.Contains(t, html, "Kelheim mode share")
	assert.Contains(t, html, "walk")
}

func TestReadAndRenderFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "modestats.csv")
	require.NoError(t, os.WriteFile(in, []byte(sample), 0o644))
	ms, err := ReadModeStats(in)
	require.NoError(t, err)
	out := filepath.Join(dir, "modestats.html")
	require.NoError(t, ms.RenderFile(out, "modes"))
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
