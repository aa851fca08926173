package core

import (
	"net/url"
	"strings"

	"emperror.dev/errors"
)

// ErrUnsupportedURL is returned for download locations that are not absolute
// http(s) URLs.
var ErrUnsupportedURL = errors.NewPlain("unsupported download URL")

// ReencodeURL re-encodes a download URL for RFC3986 compliance. CurseForge file
// names often contain spaces and square brackets that arrive unescaped.
func ReencodeURL(u string) (string, error) {
	// url.Parse accepts [ and ] outside the host but does not escape them
	u = strings.ReplaceAll(u, "[", "%5B")
	u = strings.ReplaceAll(u, "]", "%5D")
	parsed, err := url.Parse(u)
	if err != nil {
		return "", errors.Wrapf(ErrUnsupportedURL, "failed to parse url %s: %v", u, err)
	}
	return parsed.String(), nil
}

// ValidateDownloadURL checks that raw is an absolute http or https URL.
func ValidateDownloadURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(ErrUnsupportedURL, "failed parsing URL %q: %v", raw, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return errors.Wrapf(ErrUnsupportedURL, "unsupported url scheme %q in %q", u.Scheme, raw)
	}
	if u.Host == "" {
		return errors.Wrapf(ErrUnsupportedURL, "missing host in %q", raw)
	}
	return nil
}
