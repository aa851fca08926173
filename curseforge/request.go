package curseforge

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"emperror.dev/errors"
	"github.com/apex/log"

	"github.com/playtime/minecraft-bootstrap/core"
)

// Newest file first, one result, alphas filtered out by the API.
const latestFileQuery = "pageIndex=0&pageSize=1&sort=dateCreated&sortDescending=true&removeAlphas=true"

// Client talks to the CurseForge REST API with a caller-supplied API key.
type Client struct {
	fetcher *core.Fetcher
	baseURL string
	apiKey  string
}

func NewClient(f *core.Fetcher, apiKey string) *Client {
	return &Client{
		fetcher: f,
		baseURL: strings.TrimSuffix(f.Settings().CurseForgeAPI, "/"),
		apiKey:  apiKey,
	}
}

func (c *Client) header() http.Header {
	h := http.Header{}
	h.Set("x-api-key", c.apiKey)
	h.Set("Accept", "application/json")
	return h
}

// LatestFile requests the newest non-alpha file of the given modpack.
func (c *Client) LatestFile(ctx context.Context, modpackID uint32) (FileListing, error) {
	if modpackID == 0 {
		return FileListing{}, errors.WithStack(ErrInvalidModpackID)
	}

	endpoint := fmt.Sprintf("%s/v1/mods/%d/files?%s", c.baseURL, modpackID, latestFileQuery)
	log.WithField("modpack_id", modpackID).Info("requesting latest modpack file from CurseForge")

	body, err := c.fetcher.Fetch(ctx, endpoint, c.header())
	if err != nil {
		return FileListing{}, fmt.Errorf("%w for modpack %d: %w", ErrAPIRequest, modpackID, err)
	}

	listing, err := DecodeFileListing(body)
	if err != nil {
		return FileListing{}, errors.WrapIff(err, "failed to decode files of modpack %d", modpackID)
	}

	log.WithFields(log.Fields{"modpack_id": modpackID, "files": len(listing.Files)}).Debug("received modpack file listing")
	return listing, nil
}

// DownloadArchive downloads a modpack file with the same API headers as
// LatestFile.
func (c *Client) DownloadArchive(ctx context.Context, downloadURL string) ([]byte, error) {
	u, err := core.ReencodeURL(downloadURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAPIRequest, err)
	}

	log.WithField("url", u).Info("downloading modpack archive")
	data, err := c.fetcher.Fetch(ctx, u, c.header())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download modpack archive: %w", ErrAPIRequest, err)
	}
	return data, nil
}
