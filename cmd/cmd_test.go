package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/kelheim/core/matsim/network"
	"github.com/kilianp07/kelheim/core/runs"
	"github.com/kilianp07/kelheim/core/scenario"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgPath, logLevel, settings = defaultConfigPath, "", nil
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kelheim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, scenario.Version+"\n", out)
}

func TestBadSettings(t *testing.T) {
	path := writeSettings(t, "store:\n  backend: mongo\n")
	_, err := execute(t, "--config", path, "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")

	_, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "version")
	assert.Error(t, err)
}

func TestRunsLs(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "runs.jsonl")
	store, err := runs.NewJSONLStore(storePath)
	require.NoError(t, err)
	ctx := context.Background()

	ok := runs.NewRecord("kelheim-v3.1-25pct", "run", nil)
	require.NoError(t, store.Append(ctx, ok))
	ok.Status = runs.StatusSucceeded
	ok.FinishedAt = ok.StartedAt.Add(time.Hour)
	require.NoError(t, store.Append(ctx, ok))

	bad := runs.NewRecord("kelheim-v3.1-1pct", "run-1pct", nil)
	bad.Status = runs.StatusFailed
	bad.ExitCode = 1
	bad.FinishedAt = bad.StartedAt.Add(time.Minute)
	require.NoError(t, store.Append(ctx, bad))
	require.NoError(t, store.Close())

	path := writeSettings(t, "store:\n  backend: jsonl\n  path: "+storePath+"\n")

	out, err := execute(t, "-c", path, "runs", "ls", "--format", "table", "--status", "")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "RUN ID")
	assert.Contains(t, out, "kelheim-v3.1-25pct")
	assert.Contains(t, out, "1h0m0s")

	out, err = execute(t, "-c", path, "runs", "ls", "--format", "json", "--status", "failed")
	require.NoError(t, err)
	var recs []runs.RunRecord
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "kelheim-v3.1-1pct", recs[0].RunID)
	assert.Equal(t, 1, recs[0].ExitCode)

	out, err = execute(t, "-c", path, "runs", "ls", "--format", "csv", "--status", "succeeded")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	_, err = execute(t, "-c", path, "runs", "ls", "--format", "xml", "--status", "")
	assert.Error(t, err)
}

func TestPrepareNetwork(t *testing.T) {
	plan, err := scenario.Plan(scenario.PlanKelheim1pct)
	require.NoError(t, err)
	n := network.New()
	for i, id := range plan.NodeIDs() {
		n.AddNode(&network.Node{ID: id, X: float64(i) * 1000})
	}
	n.AddNode(&network.Node{ID: "x", Y: 500})
	require.NoError(t, n.AddLink(&network.Link{ID: "local", From: "x", To: plan.Highways[0].From, Length: 500, Modes: "car"}))

	dir := t.TempDir()
	in := filepath.Join(dir, "network.xml")
	outPath := filepath.Join(dir, "network-patched.xml.gz")
	require.NoError(t, n.Save(in))

	out, err := execute(t, "prepare", "network", "--input", in, "--output", outPath, "--plan", scenario.PlanKelheim1pct)
	require.NoError(t, err)
	assert.Contains(t, out, "added 24 links, opened 1 links to freight, 12 new car connections")

	patched, err := network.Load(outPath)
	require.NoError(t, err)
	for _, id := range plan.LinkIDs() {
		_, ok := patched.Link(id)
		assert.True(t, ok, id)
	}
	local, ok := patched.Link("local")
	require.True(t, ok)
	assert.True(t, local.Allows("freight"))

	_, err = execute(t, "prepare", "network", "--input", in, "--output", outPath, "--plan", "autobahn")
	assert.Error(t, err)
}

func TestAnalyzeModeStats(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "modestats.csv")
	require.NoError(t, os.WriteFile(in, []byte("iteration;bike;car;walk\n0;0.1;0.6;0.3\n1;0.2;0.5;0.3\n"), 0o644))
	chart := filepath.Join(dir, "modestats.html")

	out, err := execute(t, "analyze", "modestats", "--input", in, "--output", chart, "--title", "Kelheim")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "car"))
	assert.Contains(t, lines[0], "50.00%")

	html, err := os.ReadFile(chart)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Kelheim")
}

func TestRunFlagsOptions(t *testing.T) {
	f := newRunFlags()
	opts, err := f.options()
	require.NoError(t, err)
	assert.Equal(t, 25.0, opts.Sample.Size())

	cmd := newRunCmd()
	for _, name := range []string{"25pct", "10pct", "1pct"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}

	*f.pct[1] = true
	opts, err = f.options()
	require.NoError(t, err)
	assert.Equal(t, 1.0, opts.Sample.Size())

	*f.pct[10] = true
	_, err = f.options()
	assert.Error(t, err)
}
