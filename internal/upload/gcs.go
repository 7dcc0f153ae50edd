package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"cloud.google.com/go/storage"
	"github.com/stwalsh4118/atlas/ingest/internal/logger"
	"github.com/stwalsh4118/atlas/ingest/internal/source"
	"golang.org/x/sync/errgroup"
)

// Uploader copies finalized county GeoJSON exports to a Cloud Storage bucket
// so the files that were ingested are archived next to the table they fed.
type Uploader struct {
	client *storage.Client
	bucket string
	prefix string
	log    *logger.Logger
}

// NewUploader creates an Uploader against the given bucket. Credentials come
// from the ambient environment.
func NewUploader(ctx context.Context, bucket, prefix string, log *logger.Logger) (*Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("no storage bucket configured")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Uploader{
		client: client,
		bucket: bucket,
		prefix: prefix,
		log:    log,
	}, nil
}

// Close releases the underlying client.
func (u *Uploader) Close() error {
	return u.client.Close()
}

// UploadCounty uploads one county's finalized export. The object is keyed by
// the export's base name under the configured prefix.
func (u *Uploader) UploadCounty(ctx context.Context, county source.County, dataDir string) error {
	localPath := county.GeoJSONPath(dataDir)

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	object := path.Join(u.prefix, path.Base(localPath))
	w := u.client.Bucket(u.bucket).Object(object).NewWriter(ctx)
	w.ContentType = "application/geo+json"

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to upload %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", object, err)
	}

	u.log.Info("Uploaded county export", map[string]interface{}{
		"county": county.Name,
		"bucket": u.bucket,
		"object": object,
	})
	return nil
}

// UploadAll uploads every county's export concurrently. The first error
// cancels the remaining uploads.
func (u *Uploader) UploadAll(ctx context.Context, counties []source.County, dataDir string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, county := range counties {
		county := county
		g.Go(func() error {
			return u.UploadCounty(ctx, county, dataDir)
		})
	}
	return g.Wait()
}
