package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nthive/hive"
)

// isolate hides any real config file and HIVENAV_* variables. Viper treats
// empty variables as unset.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"HIVENAV_CASE_INSENSITIVE", "HIVENAV_PATH_CACHE_SIZE", "HIVENAV_MAX_CELL_SIZE",
		"HIVENAV_NO_MMAP", "HIVENAV_LOG_LEVEL", "HIVENAV_LOG_JSON",
	} {
		t.Setenv(key, "")
	}
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addConfigFlags(fs)
	return fs
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hivenav.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)
	c, err := loadConfig(newFlags(), "")
	require.NoError(t, err)
	require.Equal(t, config{PathCacheSize: hive.DefaultPathCacheSize}, c)
}

func TestLoadConfig_Precedence(t *testing.T) {
	isolate(t)
	file := writeConfig(t, "case_insensitive: true\npath_cache_size: 5\nmax_cell_size: 4096\n")

	c, err := loadConfig(newFlags(), file)
	require.NoError(t, err)
	require.True(t, c.CaseInsensitive)
	require.Equal(t, 5, c.PathCacheSize)
	require.Equal(t, 4096, c.MaxCellSize)

	t.Setenv("HIVENAV_PATH_CACHE_SIZE", "7")
	c, err = loadConfig(newFlags(), file)
	require.NoError(t, err)
	require.Equal(t, 7, c.PathCacheSize)

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--path-cache=-1", "--no-mmap"}))
	c, err = loadConfig(fs, file)
	require.NoError(t, err)
	require.Equal(t, -1, c.PathCacheSize)
	require.True(t, c.NoMmap)
	require.True(t, c.CaseInsensitive)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := loadConfig(newFlags(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorContains(t, err, "read config")
}

func TestConfig_HiveOptions(t *testing.T) {
	c := config{CaseInsensitive: true, PathCacheSize: 3, MaxCellSize: 64, NoMmap: true}
	opts, err := c.hiveOptions()
	require.NoError(t, err)
	require.True(t, opts.CaseInsensitive)
	require.Equal(t, 3, opts.PathCacheSize)
	require.Equal(t, 64, opts.MaxCellSize)
	require.True(t, opts.StreamFile)
	require.NotNil(t, opts.Logger)
}

func TestConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	l, err := config{LogLevel: "warn", LogJSON: true}.logger(&buf)
	require.NoError(t, err)
	l.Info("dropped")
	l.Warn("kept", "offset", "0x20")
	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), `"msg":"kept"`)

	_, err = config{LogLevel: "loud"}.logger(&buf)
	require.Error(t, err)
}
