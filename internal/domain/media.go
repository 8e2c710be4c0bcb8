package domain

import (
	"context"
	"io"
)

// MediaStore uploads an asset to the external media host and returns its
// hosted URL. Upload mechanics are opaque to the core.
type MediaStore interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (url string, err error)
}
