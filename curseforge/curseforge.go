// Package curseforge queries the CurseForge API for modpack files.
package curseforge

import (
	"strconv"
	"strings"

	"emperror.dev/errors"
)

var (
	// ErrAPIRequest covers transport failures and error statuses from the API or
	// the download host.
	ErrAPIRequest = errors.NewPlain("CurseForge API request failed")

	// ErrInvalidJSON is returned when a response body is not JSON at all.
	ErrInvalidJSON = errors.NewPlain("CurseForge API response is not valid JSON")

	// ErrMalformedEnvelope is returned when the response is JSON but not an object
	// holding a 'data' array.
	ErrMalformedEnvelope = errors.NewPlain("CurseForge API response payload is malformed")

	ErrInvalidModpackID = errors.NewPlain("modpack id must be a positive integer")
)

// ParseModpackID validates a modpack id given as text.
func ParseModpackID(raw string) (uint32, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.WithDetails(errors.WithStack(ErrInvalidModpackID), "value", raw)
	}
	return uint32(id), nil
}

// DownloadURL returns the download URL of the first file in the listing. It
// reports false when the listing is empty or the file has no usable URL, which
// happens for projects that disallow third-party distribution.
func (l FileListing) DownloadURL() (string, bool) {
	if len(l.Files) == 0 {
		return "", false
	}
	u := l.Files[0].DownloadURL
	if u == nil || *u == "" {
		return "", false
	}
	return *u, true
}

// Latest returns the first file of the listing.
func (l FileListing) Latest() (FileRecord, bool) {
	if len(l.Files) == 0 {
		return FileRecord{}, false
	}
	return l.Files[0], true
}
