package bootstrap

import (
	"fmt"

	"emperror.dev/errors"
)

var (
	// ErrInvalidConfig is returned for missing or contradicting settings. Nothing has
	// been downloaded or written when it is returned.
	ErrInvalidConfig = errors.NewPlain("invalid configuration")

	// ErrNotImplemented is returned for server types recognised by a surface that
	// does not support them.
	ErrNotImplemented = errors.NewPlain("not implemented")

	// ErrNoDownloadURL is returned when the newest modpack file carries no download
	// URL, usually because the author disabled third-party downloads.
	ErrNoDownloadURL = errors.NewPlain("modpack download URL not found in CurseForge API response")

	// ErrAlreadyInstalled is returned when the destination holds a previous
	// installation and neither pass-if-exists nor force-install is set.
	ErrAlreadyInstalled = errors.NewPlain("destination already contains an installation")
)

func invalidf(format string, args ...any) error {
	return errors.WithStackDepth(fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)), 1)
}
