package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/tccon-diagnostics/internal/diagnostics"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TCCON_SITES_FILE", filepath.Join(t.TempDir(), "none.yaml"))
	return runWith(t, args...)
}

// runWith executes the command tree with the environment already set.
func runWith(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TCCON_LOG_LEVEL", "error")

	var out bytes.Buffer
	root, a := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := a.run(root)
	return out.String(), err
}

func TestParseDay(t *testing.T) {
	d, err := parseDay("date", "2015-03-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2015, 3, 2, 0, 0, 0, 0, time.UTC), d)

	_, err = parseDay("date", "02/03/2015")
	assert.ErrorContains(t, err, "--date")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tccon-diagnostics v"+version)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte("2 3 2\nname value when\nalpha 1 2.5\nbeta 2.5\n"), 0o644))

	out, err := run(t, "inspect", "--in", path)
	require.NoError(t, err)

	var r inspectReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, []int{2, 3, 2}, r.Format)
	assert.Equal(t, 2, r.Rows)
	assert.Equal(t, []int{4}, r.ShortRows)
	require.Len(t, r.Columns, 3)
	assert.Equal(t, map[string]int{"text": 2}, r.Columns[0].Kinds)
	assert.Equal(t, map[string]int{"int": 1, "float": 1}, r.Columns[1].Kinds)
	assert.Equal(t, 1, r.Columns[2].Cells)
}

func TestRetrievalWithManifest(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "oof.csv")
	require.NoError(t, os.WriteFile(src, []byte("2 6\nspectrum,flag,year,day,hour,xco2_ppm\n"+
		"a,0,2015,61,8.5,400.1\n"+
		"b,2,2015,61,9.0,400.5\n"+
		"c,0,2015,61,9.5,399.8\n"), 0o644))
	png := filepath.Join(dir, "oof.png")
	manifest := filepath.Join(dir, "manifest.json")

	out, err := run(t, "retrieval", "--in", src, "--out", png, "--manifest", manifest)
	require.NoError(t, err)
	assert.Contains(t, out, "Data points: 3, Flagged: 1")
	assert.FileExists(t, png)

	b, err := os.ReadFile(manifest)
	require.NoError(t, err)
	var arts []diagnostics.Artifact
	require.NoError(t, json.Unmarshal(b, &arts))
	require.Len(t, arts, 1)
	assert.Equal(t, diagnostics.KindRetrieval, arts[0].Kind)
	assert.Equal(t, png, arts[0].Output)
}

func TestMeteoUnknownSite(t *testing.T) {
	_, err := run(t, "meteo", "--site", "nowhere", "--date", "2015-03-02", "--out", filepath.Join(t.TempDir(), "m.png"))
	assert.ErrorIs(t, err, diagnostics.ErrUnknownSite)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "inspect", "--in", "x")
	assert.Error(t, err)
}

func TestTrackerRangeManifestOnFailure(t *testing.T) {
	dir := t.TempDir()
	sites := filepath.Join(dir, "sites.yaml")
	require.NoError(t, os.WriteFile(sites, []byte("sites:\n"+
		"  - name: reunion\n"+
		"    latitude: -20.9\n"+
		"    longitude: 55.5\n"+
		"    tracker_log: "+dir+"/{site}/%Y%m%d.log\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "reunion"), 0o755))

	header := "TrackerCam log\nversion 2\ntime\tmode\tstate\tazim\telev\tx\ty\tq4\tcam\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reunion", "20150302.log"), []byte(header+
		"06:15:00\t1\tok\t85.5\t3.25\t0\t0\t0.5\t12\n"+
		"06:20:00\t1\tok\t86.0\t4.5\t0\t0\t0.4\t11.5\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reunion", "20150303.log"), []byte(header+
		"6h15\t1\tok\t85.5\t3.25\t0\t0\t0.5\t12\n"), 0o644))

	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))
	manifest := filepath.Join(dir, "manifest.json")

	t.Setenv("TCCON_SITES_FILE", sites)
	_, err := runWith(t, "tracker-range", "--site", "reunion",
		"--from", "2015-03-02", "--to", "2015-03-03",
		"--out-dir", outDir, "--manifest", manifest)
	require.Error(t, err)

	b, err := os.ReadFile(manifest)
	require.NoError(t, err)
	var arts []diagnostics.Artifact
	require.NoError(t, json.Unmarshal(b, &arts))
	require.Len(t, arts, 1)
	assert.Equal(t, diagnostics.KindTracker, arts[0].Kind)
	assert.Equal(t, filepath.Join(outDir, "tracker20150302.png"), arts[0].Output)
}

func TestFailedSetupSkipsManifest(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "manifest.json")
	_, err := run(t, "--log-level", "loud", "--manifest", manifest, "inspect", "--in", "x")
	assert.Error(t, err)
	assert.NoFileExists(t, manifest)
}

func TestLogOutputFlag(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "run.log")
	t.Setenv("TCCON_LOG_ENCODING", "json")

	src := filepath.Join(dir, "oof.csv")
	require.NoError(t, os.WriteFile(src, []byte("2 6\nspectrum,flag,year,day,hour,xco2_ppm\n"+
		"a,0,2015,61,8.5,400.1\n"+
		"b,0,2015,61,9.0,400.5\n"), 0o644))

	_, err := run(t, "--log-level", "info", "--log-output", logFile,
		"retrieval", "--in", src, "--out", filepath.Join(dir, "oof.png"))
	require.NoError(t, err)

	b, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"message":"artifact written"`)
}
