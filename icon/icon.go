// Package icon turns an arbitrary image into the 64x64 PNG the server shows in
// the multiplayer list.
package icon

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/playtime/minecraft-bootstrap/core"
)

// Size is the edge length of a server icon in pixels.
const Size = 64

var ErrUnsupportedImage = errors.NewPlain("unsupported server icon image")

var supportedTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp"}

// Convert decodes data, crops it to a centred square, scales it to Size x Size
// and encodes the result as PNG.
func Convert(data []byte) ([]byte, error) {
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), supportedTypes...) {
		return nil, errors.WithDetails(errors.WithStack(ErrUnsupportedImage), "mime", mt.String())
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, Size, Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, squareCrop(src.Bounds()), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, errors.Wrap(err, "failed to encode server icon")
	}
	return buf.Bytes(), nil
}

func squareCrop(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	switch {
	case w > h:
		off := (w - h) / 2
		return image.Rect(b.Min.X+off, b.Min.Y, b.Min.X+off+h, b.Max.Y)
	case h > w:
		off := (h - w) / 2
		return image.Rect(b.Min.X, b.Min.Y+off, b.Max.X, b.Min.Y+off+w)
	}
	return b
}

// Install downloads the image at url and writes it as server-icon.png in dir.
func Install(ctx context.Context, f *core.Fetcher, url string, dir string) (string, error) {
	log.WithField("url", url).Info("downloading server icon")
	data, err := f.Fetch(ctx, url, nil)
	if err != nil {
		return "", errors.WrapIf(err, "failed to download server icon")
	}

	out, err := Convert(data)
	if err != nil {
		return "", err
	}

	p := core.IconPath(dir)
	if err := os.WriteFile(p, out, 0644); err != nil {
		return "", errors.Wrap(err, "failed to write server icon")
	}
	log.WithField("file", p).Debug("wrote server icon")
	return p, nil
}
