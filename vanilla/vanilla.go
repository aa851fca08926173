// Package vanilla locates the official dedicated server jar for a release.
package vanilla

import (
	"context"
	"regexp"

	"emperror.dev/errors"
	"github.com/apex/log"

	"github.com/playtime/minecraft-bootstrap/core"
)

// ErrServerJarNotFound is returned when the version page holds no server jar link.
// Fetching the same page again will not change that, so it is never retried.
var ErrServerJarNotFound = errors.NewPlain("unable to locate server.jar URL in download page")

var serverJarRegex = regexp.MustCompile(`https://piston-data\.mojang\.com/v1/objects/[0-9a-f]+/server\.jar`)

// ExtractServerJarURL returns the first server jar link found in body.
func ExtractServerJarURL(body string) (string, bool) {
	m := serverJarRegex.FindString(body)
	return m, m != ""
}

// Resolver scrapes the version download page for the server jar URL.
type Resolver struct {
	fetcher *core.Fetcher
	pageURL string
}

func NewResolver(f *core.Fetcher) *Resolver {
	return &Resolver{fetcher: f, pageURL: f.Settings().VersionPageURL}
}

// PageURL is the download page scraped for version.
func (r *Resolver) PageURL(version string) string {
	return r.pageURL + version
}

func (r *Resolver) ResolveServerJarURL(ctx context.Context, version string) (string, error) {
	page := r.PageURL(version)
	log.WithField("url", page).Info("fetching server jar URL")

	body, err := r.fetcher.Fetch(ctx, page, nil)
	if err != nil {
		return "", errors.WrapIff(err, "failed to fetch download page for %s", version)
	}

	u, ok := ExtractServerJarURL(string(body))
	if !ok {
		return "", errors.WithDetails(errors.WithStack(ErrServerJarNotFound), "version", version, "page", page)
	}
	log.WithFields(log.Fields{"version": version, "url": u}).Debug("found server jar URL")
	return u, nil
}
