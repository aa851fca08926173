package bootstrap

import (
	"fmt"
	"path/filepath"
	"strings"

	"emperror.dev/errors"
	"github.com/Masterminds/semver/v3"
	"github.com/mitchellh/mapstructure"

	"github.com/playtime/minecraft-bootstrap/core"
	"github.com/playtime/minecraft-bootstrap/curseforge"
	"github.com/playtime/minecraft-bootstrap/properties"
)

type ServerType string

const (
	Vanilla    ServerType = "vanilla"
	Manual     ServerType = "manual"
	CurseForge ServerType = "curseforge"
)

var ServerTypes = []ServerType{Vanilla, Manual, CurseForge}

// ParseServerType matches s case-insensitively against the known server types.
func ParseServerType(s string) (ServerType, error) {
	t := ServerType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ServerTypes {
		if t == known {
			return t, nil
		}
	}
	return "", invalidf("unsupported server type %q (expected vanilla, manual or curseforge)", s)
}

// Options is the raw input of a run before validation, as collected from flags,
// a config file or the environment.
type Options struct {
	Type                string   `mapstructure:"type"`
	Version             string   `mapstructure:"version"`
	Destination         string   `mapstructure:"destination"`
	ServerPackURL       string   `mapstructure:"server-pack-url"`
	ServerJarURL        string   `mapstructure:"server-jar-url"`
	DownloadServerJar   bool     `mapstructure:"download-server-jar"`
	ServerIconURL       string   `mapstructure:"server-icon-url"`
	ServerProperties    []string `mapstructure:"server-property"`
	Exclude             []string `mapstructure:"exclude"`
	CurseForgeAPIToken  string   `mapstructure:"curseforge-api-token"`
	CurseForgeModpackID string   `mapstructure:"curseforge-modpack-id"`
	AcceptEULA          bool     `mapstructure:"accept-eula"`
	PassIfExists        bool     `mapstructure:"pass-if-exists"`
	ForceInstall        bool     `mapstructure:"force-install"`
}

// DecodeOptions fills Options from a flat settings map. Values are converted
// leniently so that config files may use strings for booleans.
func DecodeOptions(settings map[string]interface{}) (Options, error) {
	var opts Options
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &opts,
	})
	if err != nil {
		return Options{}, errors.WithStack(err)
	}
	if err := dec.Decode(settings); err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return opts, nil
}

type CurseForgeCredentials struct {
	APIToken  string
	ModpackID uint32
}

// Config is a validated set of Options. It is only created by NewConfig and is
// passed by value from then on.
type Config struct {
	Type              ServerType
	Version           string
	Destination       string
	ServerPackURL     string
	ServerJarURL      string
	DownloadServerJar bool
	ServerIconURL     string
	Overrides         properties.Overrides
	Exclude           []string
	CurseForge        CurseForgeCredentials
	AcceptEULA        bool
	PassIfExists      bool
	ForceInstall      bool
}

// ValidateVersion accepts plain X.Y.Z release versions only.
func ValidateVersion(v string) error {
	sv, err := semver.StrictNewVersion(v)
	if err != nil || sv.Prerelease() != "" || sv.Metadata() != "" {
		return invalidf("version %q must follow semantic versioning (X.Y.Z)", v)
	}
	return nil
}

func NewConfig(opts Options) (Config, error) {
	if !opts.AcceptEULA {
		return Config{}, invalidf("the Minecraft EULA must be accepted")
	}

	t, err := ParseServerType(opts.Type)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Type:              t,
		Version:           strings.TrimSpace(opts.Version),
		ServerPackURL:     strings.TrimSpace(opts.ServerPackURL),
		ServerJarURL:      strings.TrimSpace(opts.ServerJarURL),
		DownloadServerJar: opts.DownloadServerJar,
		ServerIconURL:     strings.TrimSpace(opts.ServerIconURL),
		Exclude:           opts.Exclude,
		AcceptEULA:        opts.AcceptEULA,
		PassIfExists:      opts.PassIfExists,
		ForceInstall:      opts.ForceInstall,
	}

	if opts.PassIfExists && opts.ForceInstall {
		return Config{}, invalidf("pass-if-exists and force-install are mutually exclusive")
	}

	if strings.TrimSpace(opts.Destination) == "" {
		return Config{}, invalidf("destination is required")
	}
	cfg.Destination, err = filepath.Abs(opts.Destination)
	if err != nil {
		return Config{}, fmt.Errorf("%w: destination: %w", ErrInvalidConfig, err)
	}

	if cfg.Version != "" {
		if err := ValidateVersion(cfg.Version); err != nil {
			return Config{}, err
		}
	}

	switch t {
	case Vanilla:
		if cfg.Version == "" {
			return Config{}, invalidf("version is required for vanilla servers")
		}
	case Manual:
		if cfg.ServerPackURL == "" {
			return Config{}, invalidf("server pack URL is required for manual servers")
		}
		if err := core.ValidateDownloadURL(cfg.ServerPackURL); err != nil {
			return Config{}, fmt.Errorf("%w: server pack URL: %w", ErrInvalidConfig, err)
		}
		if cfg.DownloadServerJar {
			if cfg.ServerJarURL == "" {
				cfg.ServerJarURL = core.DefaultSettings().ServerJarURL
			}
			if err := core.ValidateDownloadURL(cfg.ServerJarURL); err != nil {
				return Config{}, fmt.Errorf("%w: server jar URL: %w", ErrInvalidConfig, err)
			}
		}
	case CurseForge:
		token := strings.TrimSpace(opts.CurseForgeAPIToken)
		if token == "" {
			return Config{}, invalidf("a CurseForge API token is required for curseforge servers")
		}
		if strings.TrimSpace(opts.CurseForgeModpackID) == "" {
			return Config{}, invalidf("a CurseForge modpack id is required for curseforge servers")
		}
		id, err := curseforge.ParseModpackID(opts.CurseForgeModpackID)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		cfg.CurseForge = CurseForgeCredentials{APIToken: token, ModpackID: id}
	}

	if cfg.ServerIconURL != "" {
		if err := core.ValidateDownloadURL(cfg.ServerIconURL); err != nil {
			return Config{}, fmt.Errorf("%w: server icon URL: %w", ErrInvalidConfig, err)
		}
	}

	cfg.Overrides, err = properties.ParseOverrides(opts.ServerProperties)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}
