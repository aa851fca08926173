package vanilla

import (
	"context"
	"testing"

	"emperror.dev/errors"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playtime/minecraft-bootstrap/core"
)

const downloadPage = `<!DOCTYPE html>
<html><body>
<a href="https://piston-data.mojang.com/v1/objects/ab12cd34ef56/client.jar">Client</a>
<a href="https://piston-data.mojang.com/v1/objects/84194a2f286ef7c14ed7ce0090dba59902951553/server.jar" download>Download Server Jar</a>
<a href="https://piston-data.mojang.com/v1/objects/ffff/server.jar">Mirror</a>
</body></html>`

func newResolver(t *testing.T) (*Resolver, *httpmock.MockTransport) {
	t.Helper()
	f := core.NewFetcher(core.DefaultSettings())
	mt := httpmock.NewMockTransport()
	f.Client.Transport = mt
	return NewResolver(f), mt
}

func TestExtractServerJarURL(t *testing.T) {
	u, ok := ExtractServerJarURL(downloadPage)
	require.True(t, ok)
	assert.Equal(t, "https://piston-data.mojang.com/v1/objects/84194a2f286ef7c14ed7ce0090dba59902951553/server.jar", u)

	_, ok = ExtractServerJarURL(`<a href="https://piston-data.mojang.com/v1/objects/XYZ/server.jar">`)
	assert.False(t, ok, "object ids are lowercase hex")

	_, ok = ExtractServerJarURL("")
	assert.False(t, ok)
}

func TestResolveServerJarURL(t *testing.T) {
	r, mt := newResolver(t)
	mt.RegisterResponder("GET", "https://mcversions.net/download/1.20.1", httpmock.NewStringResponder(200, downloadPage))

	u, err := r.ResolveServerJarURL(context.Background(), "1.20.1")
	require.NoError(t, err)
	assert.Equal(t, "https://piston-data.mojang.com/v1/objects/84194a2f286ef7c14ed7ce0090dba59902951553/server.jar", u)
	assert.Equal(t, 1, mt.GetTotalCallCount())
}

func TestResolveServerJarURLNotFound(t *testing.T) {
	r, mt := newResolver(t)
	mt.RegisterResponder("GET", "https://mcversions.net/download/9.9.9", httpmock.NewStringResponder(200, "<html>no links</html>"))

	_, err := r.ResolveServerJarURL(context.Background(), "9.9.9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServerJarNotFound))
	assert.False(t, errors.Is(err, core.ErrRequestFailed))
}

func TestResolveServerJarURLHTTPError(t *testing.T) {
	r, mt := newResolver(t)
	mt.RegisterResponder("GET", "https://mcversions.net/download/1.20.1", httpmock.NewStringResponder(503, "unavailable"))

	_, err := r.ResolveServerJarURL(context.Background(), "1.20.1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrRequestFailed))
	assert.False(t, errors.Is(err, ErrServerJarNotFound))
}
