package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleCSV = "name,age,city\nAlice,30,\"New York, NY\"\nBob,25\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestStatsCommand(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	t.Run("without header", func(t *testing.T) {
		out, _, err := run(t, "stats", path)
		require.NoError(t, err)
		assert.Contains(t, out, "rows: 3\n")
		assert.Contains(t, out, "columns: 3\n")
		assert.Contains(t, out, "header: false\n")
	})

	t.Run("with header", func(t *testing.T) {
		out, _, err := run(t, "stats", "--header", path)
		require.NoError(t, err)
		assert.Contains(t, out, "rows: 2\n")
		assert.Contains(t, out, "header: true\n")
	})

	t.Run("fingerprint ignores chunk size", func(t *testing.T) {
		small, _, err := run(t, "stats", "--chunk-size", "8", path)
		require.NoError(t, err)
		large, _, err := run(t, "stats", path)
		require.NoError(t, err)
		assert.Equal(t, large, small)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := run(t, "stats", filepath.Join(t.TempDir(), "missing.csv"))
		assert.Error(t, err)
	})

	t.Run("requires a file", func(t *testing.T) {
		_, _, err := run(t, "stats")
		assert.Error(t, err)
	})
}

func TestGetCommand(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{name: "by index", args: []string{"--col", "2", "--row", "1"}, want: "New York, NY\n"},
		{name: "by name", args: []string{"--header", "--col", "city", "--row", "0"}, want: "New York, NY\n"},
		{name: "absent field", args: []string{"--header", "--col", "city", "--row", "1"}, wantErr: "absent"},
		{name: "unknown name", args: []string{"--header", "--col", "zip"}, wantErr: "unknown column"},
		{name: "row out of range", args: []string{"--row", "9"}, wantErr: "absent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, append([]string{"get", path}, tt.args...)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestHeaderCommand(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	out, _, err := run(t, "header", "--header", path)
	require.NoError(t, err)
	assert.Equal(t, "0\tname\n1\tage\n2\tcity\n", out)

	_, _, err = run(t, "header", path)
	assert.Error(t, err)
}

func TestDumpCommand(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	out, _, err := run(t, "dump", "--header", path)
	require.NoError(t, err)
	assert.Equal(t, peopleCSV, out)

	out, _, err = run(t, "dump", "--header", "--limit", "1", path)
	require.NoError(t, err)
	assert.Equal(t, "name,age,city\nAlice,30,\"New York, NY\"\n", out)

	out, _, err = run(t, "dump", "--limit", "0", path)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDumpKeepsDialect(t *testing.T) {
	semi := "id;note\n1;\"a;b\"\n2;\"say \"\"hi\"\"\"\n3;plain, with comma\n"
	path := writeFile(t, "notes.csv", semi)

	out, _, err := run(t, "dump", "--delimiter", ";", "--header", path)
	require.NoError(t, err)
	assert.Equal(t, semi, out)

	again := writeFile(t, "again.csv", out)
	first, _, err := run(t, "stats", "--delimiter", ";", "--header", path)
	require.NoError(t, err)
	second, _, err := run(t, "stats", "--delimiter", ";", "--header", again)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	out, _, err = run(t, "dump", "--delimiter", "tab", "--crlf", writeFile(t, "t.tsv", "a\tb\n1\t2\n"))
	require.NoError(t, err)
	assert.Equal(t, "a\tb\r\n1\t2\r\n", out)
}

func TestConfigFileAndFlagOverride(t *testing.T) {
	path := writeFile(t, "semi.csv", "a;b\n1;2\n")
	configPath := writeFile(t, "csvtable.yaml", "delimiter: \";\"\nheader: true\n")

	out, _, err := run(t, "get", "--config", configPath, "--col", "b", path)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	// An explicit flag wins over the file.
	out, _, err = run(t, "stats", "--config", configPath, "--header=false", path)
	require.NoError(t, err)
	assert.Contains(t, out, "rows: 2\n")

	_, _, err = run(t, "stats", "--config", filepath.Join(t.TempDir(), "none.yaml"), path)
	assert.Error(t, err)
}

func TestSniffCommand(t *testing.T) {
	path := writeFile(t, "scores.txt", "player\tscore\nann\t12\nbo\t7\n")

	out, _, err := run(t, "sniff", path)
	require.NoError(t, err)
	assert.Equal(t, "delimiter: '\\t'\nheader: true\n", out)

	// auto sniffs the delimiter and the header for any other command
	out, _, err = run(t, "get", "--delimiter", "auto", "--col", "score", "--row", "1", path)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)

	// An explicit --header=false wins over the sniffed header.
	out, _, err = run(t, "get", "--delimiter", "auto", "--header=false", "--col", "1", "--row", "0", path)
	require.NoError(t, err)
	assert.Equal(t, "score\n", out)

	configPath := writeFile(t, "csvtable.yaml", "delimiter: auto\nheader: false\n")
	out, _, err = run(t, "stats", "--config", configPath, path)
	require.NoError(t, err)
	assert.Contains(t, out, "rows: 3\n")
	assert.Contains(t, out, "header: false\n")
}

func TestInvalidSettings(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	_, _, err := run(t, "stats", "--delimiter", "::", path)
	assert.Error(t, err)

	_, _, err = run(t, "stats", "--log-level", "loud", path)
	assert.Error(t, err)

	_, _, err = run(t, "stats", "--delimiter", "\"", path)
	assert.Error(t, err)
}

func TestMetricsFlag(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	_, stderr, err := run(t, "stats", "--metrics", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "csvtable_tables_total 1")
	assert.Contains(t, stderr, `csvtable_pass_duration_seconds{pass="scan"} count=1`)

	short := writeFile(t, "short.csv", "x")
	_, stderr, err = run(t, "stats", "--metrics", short)
	require.Error(t, err)
	assert.True(t, strings.Contains(stderr, `csvtable_failures_total{reason="short_input"} 1`), stderr)
}

func TestLogLevelDebug(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	_, stderr, err := run(t, "stats", "--log-level", "debug", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
}
