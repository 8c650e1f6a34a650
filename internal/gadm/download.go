package gadm

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// retryInterval is the first download retry delay; it doubles per attempt.
var retryInterval = time.Second

const downloadRetries = 3

// Download fetches a GADM archive into destDir and extracts it. It returns
// the directory holding the extracted shapefiles. An archive already present
// in destDir is reused.
func Download(ctx context.Context, url, destDir string) (string, error) {
	log := zap.L().With(
		zap.String("component", "gadm.download"),
		zap.String("url", url),
	)

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", eris.Wrap(err, "gadm: create dest dir")
	}

	zipName := path.Base(url)
	zipPath := filepath.Join(destDir, zipName)

	if info, err := os.Stat(zipPath); err == nil && info.Size() > 0 {
		log.Debug("archive already present, skipping download", zap.String("path", zipPath))
	} else {
		log.Info("downloading GADM archive")
		if err := downloadWithRetry(ctx, url, zipPath); err != nil {
			return "", eris.Wrap(err, "gadm: download archive")
		}
	}

	extractDir := filepath.Join(destDir, strings.TrimSuffix(zipName, ".zip"))
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return "", eris.Wrap(err, "gadm: create extract dir")
	}
	if err := extractZIP(zipPath, extractDir); err != nil {
		return "", eris.Wrap(err, "gadm: extract archive")
	}

	return extractDir, nil
}

func downloadWithRetry(ctx context.Context, url, dest string) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, downloadRetries), ctx)

	return backoff.RetryNotify(func() error {
		return downloadFile(ctx, url, dest)
	}, policy, func(err error, wait time.Duration) {
		zap.L().Warn("gadm: download failed, retrying",
			zap.String("url", url),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
}

// downloadFile writes url to dest through a .part file so an interrupted
// transfer is never mistaken for a complete archive. Client errors are
// permanent; server and transport errors are retried.
func downloadFile(ctx context.Context, url, dest string) error {
	client := &http.Client{Timeout: 10 * time.Minute}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(eris.Wrap(err, "build request"))
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(eris.Wrap(err, "download"))
		}
		return eris.Wrap(err, "download")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("download returned status %d", resp.StatusCode)
		if resp.StatusCode < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		return err
	}

	part := dest + ".part"
	f, err := os.Create(part)
	if err != nil {
		return backoff.Permanent(eris.Wrap(err, "create file"))
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(part)
		return eris.Wrap(err, "write file")
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(part)
		return backoff.Permanent(eris.Wrap(err, "close file"))
	}

	if err := os.Rename(part, dest); err != nil {
		return backoff.Permanent(eris.Wrap(err, "rename file"))
	}
	return nil
}

// extractZIP flattens the archive's regular files into destDir.
func extractZIP(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrap(err, "open zip")
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := extractEntry(f, filepath.Join(destDir, filepath.Base(f.Name))); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return eris.Wrapf(err, "open zip entry %s", f.Name)
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return eris.Wrapf(err, "create %s", destPath)
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return eris.Wrapf(err, "extract %s", f.Name)
	}
	return out.Close()
}
