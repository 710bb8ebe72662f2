package imageproc

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
)

var _ port.ImageProcessor = (*Processor)(nil)

var (
	ErrEmptyImage    = errors.New("empty image")
	ErrImageTooLarge = errors.New("image is too large")
)

const dataURLPrefix = "data:image/jpeg;base64,"

// DefaultPixelFactor sets the decode budget to this many preview boxes
// when no explicit budget is given.
const DefaultPixelFactor = 64

// A Processor prepares uploaded design images for the preview: it fits
// them into a box, flattens transparency onto white and re-encodes JPEG.
type Processor struct {
	maxWidth  int
	maxHeight int
	quality   int
	maxBytes  int
	maxPixels int
}

// New returns a processor. Uploads larger than maxBytes or declaring more
// than maxPixels pixels are rejected before decoding. A non-positive
// maxPixels means DefaultPixelFactor preview boxes.
func New(maxWidth, maxHeight, quality, maxBytes, maxPixels int) Processor {
	const op = "imageproc.New"

	if maxWidth <= 0 || maxHeight <= 0 || quality <= 0 || quality > 100 {
		panic(fmt.Errorf("%s: invalid bounds", op)) // develop mistake
	}
	if maxPixels <= 0 {
		maxPixels = DefaultPixelFactor * maxWidth * maxHeight
	}
	return Processor{maxWidth, maxHeight, quality, maxBytes, maxPixels}
}

// Process returns the image as a JPEG data URL.
func (p Processor) Process(
	ctx context.Context, data []byte,
) (domain.ImageRef, error) {
	const op = "Processor.Process"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyImage)
	}
	if p.maxBytes > 0 && len(data) > p.maxBytes {
		return "", fmt.Errorf("%s: %w", op, ErrImageTooLarge)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(p.maxPixels) {
		log.Warn(
			"image exceeds pixel budget",
			"width", cfg.Width,
			"height", cfg.Height,
			"maxPixels", p.maxPixels,
		)
		return "", fmt.Errorf("%s: %w", op, ErrImageTooLarge)
	}

	img, err := imaging.Decode(
		bytes.NewReader(data), imaging.AutoOrientation(true),
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	src := img.Bounds()
	img = imaging.Fit(img, p.maxWidth, p.maxHeight, imaging.Lanczos)
	img = flatten(img)

	var buf bytes.Buffer
	err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.quality))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Debug(
		"image is processed",
		"srcWidth", src.Dx(),
		"srcHeight", src.Dy(),
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
		"nBytes", buf.Len(),
	)

	ref := dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes())
	return domain.ImageRef(ref), nil
}

func flatten(img image.Image) image.Image {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
