package imagegen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"
)

// ErrImageTooLarge is returned when an image cannot be compressed under the
// size ceiling even at the lowest quality step.
var ErrImageTooLarge = errors.New("imagegen: image exceeds size ceiling after maximum compression")

// EmailImageWidth is the fixed width for hero images in pixels. Generated
// images (1024x1024 from DALL-E) are downscaled to fit email layouts.
const EmailImageWidth = 560

// Compression quality steps. The starting quality depends on the original
// download size; the lower steps are retried until the result fits under the
// ceiling.
const (
	qualityLargeOriginal = 60 // originals over 1MiB
	qualityNormal        = 70
	qualityAggressive    = 30
	qualityExtreme       = 20

	largeOriginalThreshold = 1024 * 1024
)

// Processor recompresses downloaded images for email embedding: resize to
// EmailImageWidth, flatten to RGB, and JPEG-encode under a size ceiling.
//
// Processor is stateless and safe for concurrent use.
type Processor struct {
	// SizeLimit is the maximum encoded size in bytes. Results over the
	// limit trigger progressively lower JPEG quality, then ErrImageTooLarge.
	SizeLimit int
}

// NewProcessor creates a Processor with the given size ceiling.
func NewProcessor(sizeLimit int) *Processor {
	return &Processor{SizeLimit: sizeLimit}
}

// Process decodes, resizes, and recompresses raw image bytes.
//
// The pipeline:
//  1. Decode (PNG, JPEG, or GIF).
//  2. Resize to EmailImageWidth preserving aspect ratio. Images already at
//     the target width skip the resample.
//  3. Flatten to RGB (JPEG has no alpha channel).
//  4. Encode as JPEG. Quality starts at 60 for originals over 1MiB, 70
//     otherwise, then drops to 30 and 20 if the result exceeds SizeLimit.
//
// Returns ErrImageTooLarge if even the lowest quality step is over the
// ceiling.
func (p *Processor) Process(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("imagegen: empty image data")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imagegen: failed to decode image: %w", err)
	}

	rgb := ResizeToWidth(img, EmailImageWidth)

	quality := qualityNormal
	if len(data) > largeOriginalThreshold {
		quality = qualityLargeOriginal
	}

	for _, q := range []int{quality, qualityAggressive, qualityExtreme} {
		encoded, err := encodeJPEG(rgb, q)
		if err != nil {
			return nil, err
		}
		if len(encoded) <= p.SizeLimit {
			return encoded, nil
		}
	}

	return nil, ErrImageTooLarge
}

// ResizeToWidth scales an image to the target width preserving aspect ratio,
// flattening it to RGB in the process. Images already at the target width
// are flattened without resampling.
func ResizeToWidth(img image.Image, targetWidth int) *image.RGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width == targetWidth {
		return flattenToRGB(img)
	}

	ratio := float64(targetWidth) / float64(width)
	newHeight := int(math.Round(float64(height) * ratio))

	dst := newWhiteCanvas(targetWidth, newHeight)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// flattenToRGB composites the image over an opaque white canvas so
// transparent regions become defined pixels before JPEG encoding.
func flattenToRGB(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := newWhiteCanvas(bounds.Dx(), bounds.Dy())
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	return dst
}

func newWhiteCanvas(width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("imagegen: JPEG encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}
