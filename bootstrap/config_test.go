package bootstrap

import (
	"path/filepath"
	"testing"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playtime/minecraft-bootstrap/core"
	"github.com/playtime/minecraft-bootstrap/properties"
)

func TestParseServerType(t *testing.T) {
	for in, want := range map[string]ServerType{
		"vanilla":    Vanilla,
		"VANILLA":    Vanilla,
		" Manual ":   Manual,
		"CurseForge": CurseForge,
	} {
		got, err := ParseServerType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseServerType("forge")
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidateVersion(t *testing.T) {
	for _, v := range []string{"1.20.1", "1.8.9", "0.0.1"} {
		assert.NoError(t, ValidateVersion(v), v)
	}
	for _, v := range []string{"", "1.20", "v1.20.1", "1.20.1-pre1", "1.20.1+build", "latest", "1.2.3.4"} {
		assert.True(t, errors.Is(ValidateVersion(v), ErrInvalidConfig), v)
	}
}

func TestNewConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewConfig(Options{
		Type:             "vanilla",
		Version:          "1.20.1",
		Destination:      dir,
		AcceptEULA:       true,
		ServerProperties: []string{"motd=Hi", "max-players=5", "motd=Hello"},
		ServerIconURL:    "https://example.com/icon.png",
	})
	require.NoError(t, err)
	assert.Equal(t, Vanilla, cfg.Type)
	assert.Equal(t, dir, cfg.Destination)
	assert.Equal(t, properties.Overrides{{Key: "motd", Value: "Hello"}, {Key: "max-players", Value: "5"}}, cfg.Overrides)
}

func TestNewConfigResolvesRelativeDestination(t *testing.T) {
	cfg, err := NewConfig(Options{Type: "vanilla", Version: "1.20.1", Destination: "server", AcceptEULA: true})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(cfg.Destination))
	assert.Equal(t, "server", filepath.Base(cfg.Destination))
}

func TestNewConfigManualDefaultsServerJar(t *testing.T) {
	cfg, err := NewConfig(Options{
		Type:              "manual",
		Destination:       t.TempDir(),
		ServerPackURL:     "https://example.com/pack.zip",
		DownloadServerJar: true,
		AcceptEULA:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, core.DefaultSettings().ServerJarURL, cfg.ServerJarURL)
}

func TestNewConfigCurseForge(t *testing.T) {
	cfg, err := NewConfig(Options{
		Type:                "curseforge",
		Destination:         t.TempDir(),
		CurseForgeAPIToken:  " key ",
		CurseForgeModpackID: "285109",
		AcceptEULA:          true,
	})
	require.NoError(t, err)
	assert.Equal(t, CurseForgeCredentials{APIToken: "key", ModpackID: 285109}, cfg.CurseForge)
}

func TestNewConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		opts Options
	}{
		{"eula not accepted", Options{Type: "vanilla", Version: "1.20.1", Destination: dir}},
		{"unknown type", Options{Type: "bukkit", Destination: dir, AcceptEULA: true}},
		{"missing destination", Options{Type: "vanilla", Version: "1.20.1", AcceptEULA: true}},
		{"vanilla without version", Options{Type: "vanilla", Destination: dir, AcceptEULA: true}},
		{"vanilla bad version", Options{Type: "vanilla", Version: "1.20", Destination: dir, AcceptEULA: true}},
		{"manual without url", Options{Type: "manual", Destination: dir, AcceptEULA: true}},
		{"manual bad url", Options{Type: "manual", ServerPackURL: "file:///tmp/pack.zip", Destination: dir, AcceptEULA: true}},
		{"manual bad jar url", Options{Type: "manual", ServerPackURL: "https://example.com/p.zip", DownloadServerJar: true, ServerJarURL: "jar", Destination: dir, AcceptEULA: true}},
		{"curseforge without token", Options{Type: "curseforge", CurseForgeModpackID: "1", Destination: dir, AcceptEULA: true}},
		{"curseforge without id", Options{Type: "curseforge", CurseForgeAPIToken: "k", Destination: dir, AcceptEULA: true}},
		{"curseforge bad id", Options{Type: "curseforge", CurseForgeAPIToken: "k", CurseForgeModpackID: "abc", Destination: dir, AcceptEULA: true}},
		{"bad property", Options{Type: "vanilla", Version: "1.20.1", ServerProperties: []string{"motd"}, Destination: dir, AcceptEULA: true}},
		{"bad icon url", Options{Type: "vanilla", Version: "1.20.1", ServerIconURL: "icon.png", Destination: dir, AcceptEULA: true}},
		{"pass and force", Options{Type: "vanilla", Version: "1.20.1", PassIfExists: true, ForceInstall: true, Destination: dir, AcceptEULA: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestDecodeOptions(t *testing.T) {
	opts, err := DecodeOptions(map[string]interface{}{
		"type":                  "manual",
		"destination":           "/srv/minecraft",
		"server-pack-url":       "https://example.com/pack.zip",
		"download-server-jar":   "true",
		"accept-eula":           true,
		"server-property":       []string{"motd=Hi", "pvp=false"},
		"exclude":               []interface{}{"logs/"},
		"curseforge-modpack-id": 285109,
		"log-level":             "debug",
	})
	require.NoError(t, err)
	assert.Equal(t, "manual", opts.Type)
	assert.True(t, opts.DownloadServerJar)
	assert.True(t, opts.AcceptEULA)
	assert.Equal(t, []string{"motd=Hi", "pvp=false"}, opts.ServerProperties)
	assert.Equal(t, []string{"logs/"}, opts.Exclude)
	assert.Equal(t, "285109", opts.CurseForgeModpackID)
}
