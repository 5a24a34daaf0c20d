// Package images loads the letterhead and signature pictures used in exported
// documents and normalises them to formats the PDF writer can embed.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"net/url"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrImageLoad = errors.New("failed to load image")

// Image is a decoded picture ready to register with the PDF writer.
type Image struct {
	Name   string
	Type   string // PNG, JPG or GIF
	Data   []byte
	Width  int
	Height int
}

// Ratio returns height/width, used to scale to a target width.
func (img Image) Ratio() float64 {
	if img.Width == 0 {
		return 0
	}
	return float64(img.Height) / float64(img.Width)
}

// Loader resolves bundled assets by name from Assets.
type Loader struct {
	Assets fs.FS
}

func NewLoader(assets fs.FS) *Loader {
	return &Loader{Assets: assets}
}

// LoadAsset reads and decodes a bundled file.
func (l *Loader) LoadAsset(ctx context.Context, name string) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	if l == nil || l.Assets == nil {
		return Image{}, fmt.Errorf("%w: %s: no asset filesystem", ErrImageLoad, name)
	}
	data, err := fs.ReadFile(l.Assets, name)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %s: %v", ErrImageLoad, name, err)
	}
	return l.LoadBytes(ctx, name, data)
}

// LoadDataURL decodes a base64 data: URL such as a browser FileReader result.
func (l *Loader) LoadDataURL(ctx context.Context, name, dataURL string) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	data, err := decodeDataURL(dataURL)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %s: %v", ErrImageLoad, name, err)
	}
	return l.LoadBytes(ctx, name, data)
}

// LoadBytes decodes raw image bytes. Formats other than PNG, JPEG and GIF are
// re-encoded as PNG.
func (l *Loader) LoadBytes(ctx context.Context, name string, data []byte) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: %s: empty image", ErrImageLoad, name)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %s: %v", ErrImageLoad, name, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Image{}, fmt.Errorf("%w: %s: zero size image", ErrImageLoad, name)
	}

	img := Image{Name: name, Data: data, Width: cfg.Width, Height: cfg.Height}
	switch {
	case format == "png" && !pngEmbeddable(data):
		return reencode(img, data)
	case format == "png":
		img.Type = "PNG"
	case format == "jpeg":
		img.Type = "JPG"
	case format == "gif":
		img.Type = "GIF"
	default:
		return reencode(img, data)
	}
	return img, nil
}

// reencode decodes data and stores it as an 8-bit non-interlaced PNG.
func reencode(img Image, data []byte) (Image, error) {
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %s: %v", ErrImageLoad, img.Name, err)
	}
	var out bytes.Buffer
	if err := png.Encode(&out, ToNRGBA(decoded)); err != nil {
		return Image{}, fmt.Errorf("%w: %s: re-encode: %v", ErrImageLoad, img.Name, err)
	}
	img.Type = "PNG"
	img.Data = out.Bytes()
	return img, nil
}

// pngEmbeddable reports whether the PDF writer can take the PNG as is. It
// rejects 16-bit depth and interlacing, read from the IHDR chunk.
func pngEmbeddable(data []byte) bool {
	const (
		bitDepthOffset  = 24
		interlaceOffset = 28
	)
	if len(data) <= interlaceOffset {
		return false
	}
	return data[bitDepthOffset] <= 8 && data[interlaceOffset] == 0
}

func decodeDataURL(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "data:") {
		return nil, errors.New("not a data url")
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data url")
	}
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(unescaped), nil
}

// ToNRGBA copies src into a non-premultiplied RGBA image.
func ToNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
