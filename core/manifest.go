package core

import (
	"io"
	"io/fs"
	"os"
	"time"

	"emperror.dev/errors"
	"github.com/BurntSushi/toml"
)

// Manifest records a completed installation in the destination directory. It is
// written last, so its presence means every step of a previous run succeeded.
type Manifest struct {
	Type        string    `toml:"type"`
	Version     string    `toml:"version,omitempty"`
	Source      string    `toml:"source,omitempty"`
	ModpackID   string    `toml:"modpack-id,omitempty"`
	FileID      int64     `toml:"file-id,omitempty"`
	FileName    string    `toml:"file-name,omitempty"`
	InstalledAt time.Time `toml:"installed-at"`
	InstalledBy string    `toml:"installed-by"`
}

// LoadManifest reads the manifest from dir. The returned bool is false when no
// manifest exists.
func LoadManifest(dir string) (Manifest, bool, error) {
	var m Manifest
	if _, err := toml.DecodeFile(ManifestPath(dir), &m); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, false, nil
		}
		return Manifest{}, false, errors.Wrap(err, "failed to read install manifest")
	}
	return m, true, nil
}

// Write saves the manifest into dir
func (m Manifest) Write(dir string) error {
	f, err := os.Create(ManifestPath(dir))
	if err != nil {
		return errors.Wrap(err, "failed to write install manifest")
	}
	return m.encode(f)
}

// encode writes m to w and closes it, reporting a failed close.
func (m Manifest) encode(w io.WriteCloser) error {
	enc := toml.NewEncoder(w)
	// Disable indentation
	enc.Indent = ""
	if err := enc.Encode(m); err != nil {
		_ = w.Close()
		return errors.WithStack(err)
	}
	return errors.Wrap(w.Close(), "failed to write install manifest")
}
