package filelist

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpand(t *testing.T) {
	got, err := Expand("/data/{site}/%Y/%m/%d", "reunion", date(2015, time.March, 2))
	require.NoError(t, err)
	assert.Equal(t, "/data/reunion/2015/03/02", got)

	got, err = Expand("tracker%Y%m%d", "x", date(2015, time.December, 31))
	require.NoError(t, err)
	assert.Equal(t, "tracker20151231", got)

	_, err = Expand("", "x", date(2015, 1, 1))
	assert.True(t, errors.Is(err, ErrNoTemplate))
}

func mkdayDir(t *testing.T, root string, day time.Time, files ...string) {
	t.Helper()
	dir := filepath.Join(root, "site", day.Format("20060102"))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
	}
}

func TestWrite(t *testing.T) {
	root := t.TempDir()
	mkdayDir(t, root, date(2015, 3, 1), "ra20150301saaaaa.dual", "notes.txt")
	// 2015-03-02 has no directory.
	mkdayDir(t, root, date(2015, 3, 3), "ra20150303_ingaas.001", "ra20150303_si.001")
	mkdayDir(t, root, date(2015, 3, 4), "ra20150304.dual")

	template := filepath.Join(root, "{site}", "%Y%m%d")
	var buf bytes.Buffer
	n, err := Write(&buf, "site", template, date(2015, 3, 1), date(2015, 3, 4))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{
		filepath.Join(root, "site", "20150301", "ra20150301saaaaa.dual"),
		filepath.Join(root, "site", "20150303", "ra20150303_ingaas.001"),
	}, lines)
}

func TestWriteCustomMatch(t *testing.T) {
	root := t.TempDir()
	mkdayDir(t, root, date(2015, 3, 1), "a.dual", "b.si")

	template := filepath.Join(root, "{site}", "%Y%m%d")
	var buf bytes.Buffer
	n, err := Write(&buf, "site", template, date(2015, 3, 1), date(2015, 3, 2), ".si")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, buf.String(), "b.si")
}

func TestWriteFileOverwrites(t *testing.T) {
	root := t.TempDir()
	mkdayDir(t, root, date(2015, 3, 1), "a.dual")
	out := filepath.Join(root, "list.txt")
	require.NoError(t, os.WriteFile(out, []byte("stale\nstale\n"), 0o644))

	n, err := WriteFile(out, "site", filepath.Join(root, "{site}", "%Y%m%d"), date(2015, 3, 1), date(2015, 3, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "stale")
}

func TestDaysIsInclusive(t *testing.T) {
	root := t.TempDir()
	for _, d := range []int{1, 3} {
		p := filepath.Join(root, date(2015, 3, d).Format("tracker20060102.log"))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}

	days, err := Days(filepath.Join(root, "tracker%Y%m%d.log"), "site", date(2015, 3, 1), date(2015, 3, 3))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, date(2015, 3, 3), days[1].Day)
}
