// Package bootstrap prepares a server directory for one of the supported server
// types and applies the post-install customisation.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"emperror.dev/errors"
	"github.com/apex/log"

	"github.com/playtime/minecraft-bootstrap/archive"
	"github.com/playtime/minecraft-bootstrap/core"
	"github.com/playtime/minecraft-bootstrap/curseforge"
	"github.com/playtime/minecraft-bootstrap/icon"
	"github.com/playtime/minecraft-bootstrap/properties"
	"github.com/playtime/minecraft-bootstrap/vanilla"
)

// Result summarises a run.
type Result struct {
	// Skipped is set when an existing installation was accepted as is.
	Skipped           bool
	Destination       string
	ServerJar         string
	FilesExtracted    int
	PropertiesChanged bool
	Icon              string
	Manifest          core.Manifest
}

type Bootstrapper struct {
	fetcher  *core.Fetcher
	resolver *vanilla.Resolver
}

func New(f *core.Fetcher) *Bootstrapper {
	return &Bootstrapper{fetcher: f, resolver: vanilla.NewResolver(f)}
}

// Run installs the server described by cfg. Any failure aborts the remaining
// steps; files written up to that point are left in place.
func (b *Bootstrapper) Run(ctx context.Context, cfg Config) (Result, error) {
	res := Result{Destination: cfg.Destination}
	logger := log.WithFields(log.Fields{"type": cfg.Type, "destination": cfg.Destination})

	if err := core.EnsureDir(cfg.Destination); err != nil {
		return res, errors.Wrap(err, "failed to create destination directory")
	}

	prev, installed, err := core.LoadManifest(cfg.Destination)
	if err != nil {
		return res, err
	}
	if installed {
		switch {
		case cfg.PassIfExists:
			logger.WithField("installed_at", prev.InstalledAt).Info("server already installed, skipping")
			res.Skipped = true
			res.Manifest = prev
			return res, nil
		case !cfg.ForceInstall:
			return res, errors.WithDetails(errors.WithStack(ErrAlreadyInstalled), "destination", cfg.Destination, "type", prev.Type)
		}
		logger.Info("reinstalling over existing installation")
	}

	eula, err := core.WriteEula(cfg.Destination)
	if err != nil {
		return res, err
	}
	logger.WithField("file", eula).Info("accepted EULA")

	m := core.Manifest{Type: string(cfg.Type), Version: cfg.Version}
	switch cfg.Type {
	case Vanilla:
		err = b.installVanilla(ctx, cfg, &res, &m)
	case Manual:
		err = b.installManual(ctx, cfg, &res, &m)
	case CurseForge:
		err = b.installCurseForge(ctx, cfg, &res, &m)
	default:
		err = fmt.Errorf("%w: server type %q", ErrNotImplemented, cfg.Type)
	}
	if err != nil {
		return res, err
	}

	if len(cfg.Overrides) > 0 {
		res.PropertiesChanged, err = properties.MergeFile(core.PropertiesPath(cfg.Destination), cfg.Overrides)
		if err != nil {
			return res, err
		}
	}

	if cfg.ServerIconURL != "" {
		res.Icon, err = icon.Install(ctx, b.fetcher, cfg.ServerIconURL, cfg.Destination)
		if err != nil {
			return res, err
		}
	}

	m.InstalledAt = time.Now().UTC()
	m.InstalledBy = b.fetcher.Settings().UserAgent
	if err := m.Write(cfg.Destination); err != nil {
		return res, err
	}
	res.Manifest = m

	logger.Info("server bootstrapped successfully")
	return res, nil
}

func (b *Bootstrapper) installVanilla(ctx context.Context, cfg Config, res *Result, m *core.Manifest) error {
	u, err := b.resolver.ResolveServerJarURL(ctx, cfg.Version)
	if err != nil {
		return err
	}
	m.Source = u

	// without a manifest nothing tells which version an existing jar is
	res.ServerJar, err = b.writeServerJar(ctx, u, cfg.Destination, false)
	return err
}

func (b *Bootstrapper) installManual(ctx context.Context, cfg Config, res *Result, m *core.Manifest) error {
	m.Source = cfg.ServerPackURL

	log.WithField("url", cfg.ServerPackURL).Info("downloading server pack")
	data, err := b.fetcher.Fetch(ctx, cfg.ServerPackURL, nil)
	if err != nil {
		return errors.WrapIf(err, "failed to download server pack")
	}

	res.FilesExtracted, err = archive.Install(ctx, data, cfg.Destination, archive.WithExclude(cfg.Exclude...))
	if err != nil {
		return errors.WrapIf(err, "failed to install server pack")
	}

	if cfg.DownloadServerJar {
		res.ServerJar, err = b.writeServerJar(ctx, cfg.ServerJarURL, cfg.Destination, !cfg.ForceInstall)
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *Bootstrapper) installCurseForge(ctx context.Context, cfg Config, res *Result, m *core.Manifest) error {
	creds := cfg.CurseForge
	if creds.APIToken == "" || creds.ModpackID == 0 {
		return invalidf("CurseForge configuration is incomplete; missing API token or modpack ID")
	}
	client := curseforge.NewClient(b.fetcher, creds.APIToken)

	listing, err := client.LatestFile(ctx, creds.ModpackID)
	if err != nil {
		return err
	}
	log.WithField("files", len(listing.Files)).Info("received modpack metadata from CurseForge")

	u, ok := listing.DownloadURL()
	if !ok {
		return errors.WithDetails(errors.WithStack(ErrNoDownloadURL), "modpack_id", creds.ModpackID)
	}
	if latest, ok := listing.Latest(); ok {
		m.FileID = latest.ID
		m.FileName = latest.FileName
	}
	m.ModpackID = strconv.FormatUint(uint64(creds.ModpackID), 10)

	data, err := client.DownloadArchive(ctx, u)
	if err != nil {
		return err
	}
	log.WithField("bytes", len(data)).Info("downloaded modpack archive")

	res.FilesExtracted, err = archive.Install(ctx, data, cfg.Destination, archive.WithExclude(cfg.Exclude...))
	if err != nil {
		return errors.WrapIf(err, "failed to install modpack")
	}
	return nil
}

// writeServerJar downloads url into server.jar. An existing jar is kept when
// keepExisting is set and replaced otherwise.
func (b *Bootstrapper) writeServerJar(ctx context.Context, url, dir string, keepExisting bool) (string, error) {
	p := core.ServerJarPath(dir)
	exists, err := core.FileExists(p)
	if err != nil {
		return "", errors.WithStack(err)
	}
	switch {
	case exists && keepExisting:
		log.WithField("file", p).Info("server jar already present, skipping download")
		return p, nil
	case exists:
		log.WithField("file", p).Warn("replacing existing server jar")
	}

	log.WithField("url", url).Info("downloading server jar")
	data, err := b.fetcher.Fetch(ctx, url, nil)
	if err != nil {
		return "", errors.WrapIf(err, "failed to download server jar")
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", errors.Wrap(err, "failed to write server jar")
	}
	log.WithFields(log.Fields{"file": p, "bytes": len(data)}).Info("wrote server jar")
	return p, nil
}
