package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // SoundCloud and YouTube serve some artwork as WebP
)

// ImageService prepares cover art before it is embedded in an ID3 tag.
//
// Example usage:
//
//	svc := NewImageService(1000, true)
//	cover, err := svc.Prepare(ctx, downloaded)
type ImageService struct {
	maxSize     int
	convertJPEG bool
}

// NewImageService creates an ImageService. A maxSize of 0 disables
// resizing; convertJPEG re-encodes every cover as JPEG.
func NewImageService(maxSize int, convertJPEG bool) *ImageService {
	return &ImageService{maxSize: maxSize, convertJPEG: convertJPEG}
}

// Prepare applies the configured resize and conversion to a cover image.
// Input that is already small enough and needs no conversion is
// returned unchanged.
func (s *ImageService) Prepare(ctx context.Context, data []byte) ([]byte, error) {
	if s.maxSize <= 0 && !s.convertJPEG {
		return data, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), s.maxSize)
	if width == bounds.Dx() && height == bounds.Dy() {
		if format == "jpeg" || !s.convertJPEG {
			return data, nil
		}
		return encodeJPEG(img)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return encodeJPEG(dst)
}

// fitWithin scales width and height down to fit a maxSize square,
// preserving the aspect ratio.
func fitWithin(width, height, maxSize int) (int, int) {
	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return width, height
	}
	if width >= height {
		return maxSize, max(1, height*maxSize/width)
	}
	return max(1, width*maxSize/height), maxSize
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
