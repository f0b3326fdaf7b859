// Package cloudinary uploads payment slips to the external asset host. It
// runs on its own HTTP stack: the marketplace bearer token must never reach
// this service.
package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ceylonhub/storefront/internal/config"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ProgressFunc receives best-effort byte counts while an upload streams.
// total is the declared size, or 0 when unknown.
type ProgressFunc func(done, total int64)

type Uploader struct {
	cld    *cloudinary.Cloudinary
	preset string
}

func New(cfg config.Cloudinary) (*Uploader, error) {

	if cfg.URL == "" {
		return nil, errors.New("CLOUDINARY_URL is not set")
	}

	cld, err := cloudinary.NewFromURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}

	return &Uploader{cld: cld, preset: cfg.UploadPreset}, nil
}

// Upload streams r to the asset host and returns the stable https URL.
// Progress reporting is best effort; cancel via ctx.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, size int64, progress ProgressFunc) (string, error) {

	if progress != nil {
		r = &progressReader{r: r, total: size, fn: progress}
	}

	result, err := u.cld.Upload.Upload(ctx, r, uploader.UploadParams{UploadPreset: u.preset})
	if err != nil {
		return "", fmt.Errorf("upload asset: %w", err)
	}

	if result.Error.Message != "" {
		return "", fmt.Errorf("upload asset: %s", result.Error.Message)
	}

	return result.SecureURL, nil
}

type progressReader struct {
	r     io.Reader
	done  int64
	total int64
	fn    ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)

	if n > 0 {
		p.done += int64(n)
		p.fn(p.done, p.total)
	}

	return n, err
}
