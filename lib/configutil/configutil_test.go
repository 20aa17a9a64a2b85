package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Endpoint string `json:"endpoint"`
	Username string `json:"username"`
	Timeout  int    `json:"timeout_seconds"`
	HttpAuth *struct {
		Username string `json:"username"`
	} `json:"http_auth"`
}

func write(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "wallabag.local.json5", LocalPath("wallabag.json5"))
	require.Equal(t, "/etc/a/b.local.json5", LocalPath("/etc/a/b.json5"))
	require.Equal(t, "noext.local", LocalPath("noext"))
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "wallabag.json5"), `{
		// comments are allowed
		endpoint: "https://read.example.com/",
		username: "alice",
		timeout_seconds: 10,
	}`)
	write(t, filepath.Join(dir, "wallabag.local.json5"), `{
		username: "bob",
		http_auth: { username: "gate" },
	}`)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "wallabag.json5"))
	require.Nil(t, err)

	expected := testConfig{
		Endpoint: "https://read.example.com/",
		Username: "bob",
		Timeout:  10,
	}
	expected.HttpAuth = &struct {
		Username string `json:"username"`
	}{Username: "gate"}

	if diff := cmp.Diff(expected, config); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestReadConfigOnlyLocal(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "wallabag.local.json5"), `{ username: "bob" }`)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "wallabag.json5"))
	require.Nil(t, err)
	require.Equal(t, "bob", config.Username)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "wallabag.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "wallabag.json5"), `{ endpoint: `)

	_, err := ReadConfig[testConfig](filepath.Join(dir, "wallabag.json5"))
	require.NotNil(t, err)
	require.False(t, os.IsNotExist(err))
}

func TestReadRecursivelyFrom(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	err := os.MkdirAll(nested, 0777)
	if err != nil {
		t.Fatal(err)
	}
	write(t, filepath.Join(root, "a", "wallabag.json5"), `{ endpoint: "http://found/" }`)

	config, err := ReadRecursivelyFrom[testConfig](nested, "wallabag.json5")
	require.Nil(t, err)
	require.Equal(t, "http://found/", config.Endpoint)

	_, err = ReadRecursivelyFrom[testConfig](nested, "missing-config-file.json5")
	require.True(t, os.IsNotExist(err))
}

func TestReadConfigLocalZeroValuesWin(t *testing.T) {
	type config struct {
		Endpoint         string `json:"endpoint"`
		Timeout          int    `json:"timeout_seconds"`
		CloudflareBypass bool   `json:"cloudflare_bypass"`
		HttpAuth         struct {
			Username string `json:"username"`
			Password string `json:"password"`
		} `json:"http_auth"`
	}

	dir := t.TempDir()
	write(t, filepath.Join(dir, "wallabag.json5"), `{
		endpoint: "https://read.example.com/",
		timeout_seconds: 10,
		cloudflare_bypass: true,
		http_auth: { username: "gate", password: "keeper" },
	}`)
	write(t, filepath.Join(dir, "wallabag.local.json5"), `{
		timeout_seconds: 0,
		cloudflare_bypass: false,
		http_auth: { password: "" },
	}`)

	out, err := ReadConfig[config](filepath.Join(dir, "wallabag.json5"))
	require.Nil(t, err)
	require.Equal(t, "https://read.example.com/", out.Endpoint)
	require.Equal(t, 0, out.Timeout)
	require.False(t, out.CloudflareBypass)
	require.Equal(t, "gate", out.HttpAuth.Username)
	require.Equal(t, "", out.HttpAuth.Password)
}
