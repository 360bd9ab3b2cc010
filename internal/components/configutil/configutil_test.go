package configutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string   `json:"name"`
	Retries int      `json:"retries"`
	Tags    []string `json:"tags"`
	Limit   *int     `json:"limit"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestLocalName(t *testing.T) {
	require.Equal(t, "config.local.json5", LocalName("config.json5"))
	require.Equal(t, "dir/a.b.local.json", LocalName("dir/a.b.json"))
	require.Equal(t, "noext.local", LocalName("noext"))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](name)
	require.ErrorIs(t, err, fs.ErrNotExist)

	writeFile(t, name, `{
		// comments are allowed
		name: "base",
		retries: 2,
		tags: ["a"],
	}`)
	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{Name: "base", Retries: 2, Tags: []string{"a"}}, cfg)

	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ retries: 5 }`)
	cfg, err = ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "base", cfg.Name)
	require.Equal(t, 5, cfg.Retries)
}

func TestReadConfigInvalid(t *testing.T) {
	name := filepath.Join(t.TempDir(), "config.json5")
	writeFile(t, name, `{ name: `)
	_, err := ReadConfig[testConfig](name)
	require.Error(t, err)
	require.NotErrorIs(t, err, fs.ErrNotExist)
}

func TestWithDefaults(t *testing.T) {
	cfg := testConfig{Name: "set"}
	require.NoError(t, WithDefaults(&cfg, testConfig{Name: "default", Retries: 3}))
	require.Equal(t, "set", cfg.Name)
	require.Equal(t, 3, cfg.Retries)
}

func TestWithDefaultsKeepsExplicitPointer(t *testing.T) {
	zero, three := 0, 3

	cfg := testConfig{Limit: &zero}
	require.NoError(t, WithDefaults(&cfg, testConfig{Limit: &three}))
	require.NotNil(t, cfg.Limit)
	require.Equal(t, 0, *cfg.Limit)

	unset := testConfig{}
	require.NoError(t, WithDefaults(&unset, testConfig{Limit: &three}))
	require.NotNil(t, unset.Limit)
	require.Equal(t, 3, *unset.Limit)
}
