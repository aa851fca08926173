package core

import (
	"time"

	"github.com/creasty/defaults"
)

// UserAgent is sent with every outgoing request. The CurseForge API key is sent in
// its own header and never folded into this value.
var UserAgent = "playtime-minecraft-bootstrap/go"

// Settings holds the fixed network constants and upstream locations used by a run.
// None of these are per-call parameters; they are resolved once at startup.
type Settings struct {
	UserAgent string

	// Time allowed to establish a connection, including the TLS handshake.
	ConnectTimeout time.Duration `default:"10s"`
	// Time allowed to wait for response headers and between two reads of a body.
	ReadTimeout time.Duration `default:"120s"`

	// Prefix of the page listing the download links for a given version. The version
	// string is appended verbatim.
	VersionPageURL string `default:"https://mcversions.net/download/"`

	// Generic launcher jar fetched for manual server packs when requested.
	ServerJarURL string `default:"https://github.com/BloodyMods/ServerStarter/releases/download/v2.4.0/serverstarter-2.4.0.jar"`

	CurseForgeAPI string `default:"https://api.curseforge.com"`
}

// DefaultSettings returns a Settings value with every field set to its default.
func DefaultSettings() Settings {
	var s Settings
	// Only fails for a non-pointer argument.
	_ = defaults.Set(&s)
	if s.UserAgent == "" {
		s.UserAgent = UserAgent
	}
	return s
}
