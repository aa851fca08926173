package bootstrap

import (
	"fmt"
	"path/filepath"
	"strings"

	"emperror.dev/errors"
	"github.com/spf13/viper"

	"github.com/playtime/minecraft-bootstrap/core"
)

// Status is one line of the environment validation report.
type Status struct {
	Label  string
	OK     bool
	Detail string
}

func (s Status) String() string {
	msg := s.Label + ": FAIL"
	if s.OK {
		msg = s.Label + ": OK"
	}
	if s.Detail != "" {
		msg += " - " + s.Detail
	}
	return msg
}

// envBindings maps option keys to the environment variables read for them. When
// several names are listed the first one that is set wins.
var envBindings = map[string][]string{
	"eula":                  {"EULA"},
	"version":               {"VERSION"},
	"working-dir":           {"WORKING_DIR"},
	"type":                  {"TYPE"},
	"curseforge-api-token":  {"CURSEFORGE_API_TOKEN", "CF_API_TOKEN"},
	"curseforge-modpack-id": {"CURSEFORGE_MODPACK_ID", "CF_MODPACK_ID"},
	"server-icon-url":       {"SERVER_ICON_URL"},
	"server-properties":     {"SERVER_PROPERTIES"},
}

// Environment collects a run configuration from container-style environment
// variables, reporting the outcome of every check.
type Environment struct {
	v      *viper.Viper
	report func(Status)
}

func NewEnvironment(report func(Status)) (*Environment, error) {
	v := viper.New()
	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	if report == nil {
		report = func(Status) {}
	}
	return &Environment{v: v, report: report}, nil
}

func (e *Environment) get(key string) string {
	return strings.TrimSpace(e.v.GetString(key))
}

// require reads a mandatory variable, failing with a status line when it is unset.
func (e *Environment) require(key, label string) (string, error) {
	val := e.get(key)
	if val == "" {
		err := invalidf("environment variable '%s' is required", label)
		e.report(Status{Label: label, Detail: fmt.Sprintf("environment variable '%s' is required", label)})
		return "", err
	}
	return val, nil
}

// Collect validates the environment. Validation stops at the first failing
// variable. The working directory is created when missing. A MANUAL type yields
// ErrNotImplemented since this surface has no way to pass a server pack URL.
func (e *Environment) Collect() (Options, error) {
	eula, err := e.require("eula", "EULA")
	if err != nil {
		return Options{}, err
	}
	if strings.ToLower(eula) != "true" {
		e.report(Status{Label: "EULA", Detail: "must be 'true'"})
		return Options{}, invalidf("EULA must be accepted (set to 'true')")
	}
	e.report(Status{Label: "EULA", OK: true})

	version, err := e.require("version", "VERSION")
	if err != nil {
		return Options{}, err
	}
	if err := ValidateVersion(version); err != nil {
		e.report(Status{Label: "VERSION", Detail: "invalid semver format (expected X.Y.Z)"})
		return Options{}, err
	}
	e.report(Status{Label: "VERSION", OK: true, Detail: version})

	dir, err := e.require("working-dir", "WORKING_DIR")
	if err != nil {
		return Options{}, err
	}
	if !filepath.IsAbs(dir) {
		e.report(Status{Label: "WORKING_DIR", Detail: "path must be absolute"})
		return Options{}, invalidf("WORKING_DIR must be an absolute path")
	}
	if err := core.EnsureDir(dir); err != nil {
		e.report(Status{Label: "WORKING_DIR", Detail: err.Error()})
		return Options{}, fmt.Errorf("%w: WORKING_DIR: %w", ErrInvalidConfig, err)
	}
	e.report(Status{Label: "WORKING_DIR", OK: true, Detail: dir})

	rawType, err := e.require("type", "TYPE")
	if err != nil {
		return Options{}, err
	}
	t, err := ParseServerType(rawType)
	if err != nil {
		e.report(Status{Label: "TYPE", Detail: "must be VANILLA or CURSEFORGE"})
		return Options{}, err
	}
	if t == Manual {
		e.report(Status{Label: "TYPE", Detail: "MANUAL is not supported from the environment"})
		return Options{}, fmt.Errorf("%w: server type '%s' is not implemented for environment configuration", ErrNotImplemented, strings.ToUpper(string(t)))
	}
	e.report(Status{Label: "TYPE", OK: true, Detail: strings.ToUpper(string(t))})

	opts := Options{
		Type:         string(t),
		Version:      version,
		Destination:  dir,
		AcceptEULA:   true,
		ForceInstall: true,
	}

	if t == CurseForge {
		opts.CurseForgeAPIToken = e.get("curseforge-api-token")
		if opts.CurseForgeAPIToken == "" {
			e.report(Status{Label: "CURSEFORGE_API_TOKEN", Detail: "set CURSEFORGE_API_TOKEN or CF_API_TOKEN"})
			return Options{}, invalidf("CURSEFORGE_API_TOKEN or CF_API_TOKEN must be provided for CurseForge server type")
		}
		e.report(Status{Label: "CURSEFORGE_API_TOKEN", OK: true})

		opts.CurseForgeModpackID = e.get("curseforge-modpack-id")
		if opts.CurseForgeModpackID == "" {
			e.report(Status{Label: "CURSEFORGE_MODPACK_ID", Detail: "set CURSEFORGE_MODPACK_ID or CF_MODPACK_ID"})
			return Options{}, invalidf("CURSEFORGE_MODPACK_ID or CF_MODPACK_ID must be provided for CurseForge server type")
		}
		e.report(Status{Label: "CURSEFORGE_MODPACK_ID", OK: true, Detail: opts.CurseForgeModpackID})
	}

	if icon := e.get("server-icon-url"); icon != "" {
		opts.ServerIconURL = icon
		e.report(Status{Label: "SERVER_ICON_URL", OK: true, Detail: icon})
	}
	if props := e.get("server-properties"); props != "" {
		opts.ServerProperties = splitProperties(props)
		e.report(Status{Label: "SERVER_PROPERTIES", OK: true, Detail: fmt.Sprintf("%d override(s)", len(opts.ServerProperties))})
	}

	return opts, nil
}

// splitProperties splits a newline or semicolon separated list of key=value pairs.
func splitProperties(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ';'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
