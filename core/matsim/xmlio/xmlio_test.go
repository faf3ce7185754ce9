package xmlio

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOpenRoundTrip(t *testing.T) {
	for _, name := range []string{"plain.xml", "nested/compressed.xml.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			w, err := Create(path)
			require.NoError(t, err)
			require.NoError(t, WriteProlog(w, "network", "http://www.matsim.org/files/dtd/network_v2.dtd"))
			_, err = io.WriteString(w, "<network/>\n")
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := Open(path)
			require.NoError(t, err)
			data, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Contains(t, string(data), "<!DOCTYPE network SYSTEM")
			assert.Contains(t, string(data), "<network/>")
		})
	}
}

func TestIsGzip(t *testing.T) {
	assert.True(t, IsGzip("kelheim-v3.0-network.xml.gz"))
	assert.True(t, IsGzip("X.GZ"))
	assert.False(t, IsGzip("config.xml"))
}
