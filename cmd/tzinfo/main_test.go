package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ngrash/go-datetime/tzif"
)

var berlin = &tzif.File{
	Version:         tzif.V2,
	Transitions:     []int64{-2422054408, 1711846800, 1729990800},
	TransitionTypes: []uint8{1, 2, 1},
	LocalTimeTypes: []tzif.LocalTimeType{
		{Offset: 3208, Abbrev: "LMT"},
		{Offset: 3600, Abbrev: "CET"},
		{Offset: 7200, DST: true, Abbrev: "CEST"},
	},
	Footer: "CET-1CEST,M3.5.0,M10.5.0/3",
}

func writeFile(t *testing.T, path string, f *tzif.File, trailer string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf))
	buf.WriteString(trailer)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestRun(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "zoneinfo", "Europe", "Berlin"), berlin, "")
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-from", "2024", "-to", "2025", path}, &stdout, &stderr))
	want := `Europe/Berlin
  version     = V2 (0x32)
  transitions = 3
  types       = 3
  footer      = CET-1CEST,M3.5.0,M10.5.0/3

Local time types
  0 +00:53:28 LMT
  1 +01:00    CET
  2 +02:00    CEST dst

Offset changes 2024..2025
  2024-03-31T01:00:00Z +01:00 -> +02:00 gap     2024-03-31T02:00 -> 2024-03-31T03:00
  2024-10-27T01:00:00Z +02:00 -> +01:00 overlap 2024-10-27T03:00 -> 2024-10-27T02:00
  2025-03-30T01:00:00Z +01:00 -> +02:00 gap     2025-03-30T02:00 -> 2025-03-30T03:00
  2025-10-26T01:00:00Z +02:00 -> +01:00 overlap 2025-10-26T03:00 -> 2025-10-26T02:00
`
	if diff := cmp.Diff(want, stdout.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	require.Empty(t, stderr.String())
}

func TestRun_DefaultRange(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "Berlin"), berlin, "")
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{path}, &stdout, &stderr))
	require.Contains(t, stdout.String(), "Offset changes 1893..2025\n")
	require.Contains(t, stdout.String(), "  1893-03-31T23:06:32Z +00:53:28 -> +01:00 gap     1893-04-01T00:00 -> 1893-04-01T00:06:32\n")
	require.Contains(t, stdout.String(), "  2025-10-26T01:00:00Z +02:00 -> +01:00 overlap")
}

func TestRun_TrailingData(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "Berlin"), berlin, "garbage")
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-from", "2024", "-to", "2024", path}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "trailing data after TZif footer")
}

func TestRun_Diff(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a"), berlin, "")
	b := writeFile(t, filepath.Join(dir, "b"), berlin, "")
	changed := *berlin
	changed.Footer = "CET-1"
	c := writeFile(t, filepath.Join(dir, "c"), &changed, "")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-diff", b, a}, &stdout, &stderr))
	require.Equal(t, "files are identical\n", stdout.String())

	stdout.Reset()
	require.NoError(t, run([]string{"-diff", c, a}, &stdout, &stderr))
	require.Contains(t, stdout.String(), "files are different: -"+a+" +"+c)
	require.Contains(t, stdout.String(), `"CET-1"`)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	notTZif := filepath.Join(dir, "zone.tab")
	require.NoError(t, os.WriteFile(notTZif, []byte("# ISO\tcoordinates\tTZ\n"), 0o644))
	path := writeFile(t, filepath.Join(dir, "Berlin"), berlin, "")

	for _, c := range []struct {
		args []string
		want string
	}{
		{nil, "expected one file"},
		{[]string{filepath.Join(dir, "missing")}, "no such file"},
		{[]string{notTZif}, "invalid magic"},
		{[]string{"-from", "2025", "-to", "2024", path}, "year range 2025..2024 is empty"},
	} {
		var stdout, stderr bytes.Buffer
		require.ErrorContains(t, run(c.args, &stdout, &stderr), c.want)
	}
}
