package install

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Chaebin-Park/GradleBuildProfiler/pkg/registry"
	"github.com/hashicorp/go-retryablehttp"
)

var (
	ErrPlaceholderChecksum = errors.New("asset has no usable checksum")
	ErrChecksumMismatch    = errors.New("checksum verification failed")
)

var (
	defaultRetryableClient     *retryablehttp.Client
	defaultRetryableClientInit sync.Once
)

func getDefaultRetryableClient() *retryablehttp.Client {
	defaultRetryableClientInit.Do(func() {
		defaultRetryableClient = retryablehttp.NewClient()
		defaultRetryableClient.Logger = nil
		defaultRetryableClient.HTTPClient.Timeout = 3 * time.Minute
	})
	return defaultRetryableClient
}

// DownloadAndVerify streams the asset into w and returns its SHA-256 sum.
// Placeholder checksums are rejected before any request is sent.
func DownloadAndVerify(ctx context.Context, asset *registry.Asset, w io.Writer) (string, error) {
	if registry.IsPlaceholderChecksum(asset.Checksum) {
		return "", fmt.Errorf("%w: %s (%q)", ErrPlaceholderChecksum, asset.FileName, asset.Checksum)
	}
	if asset.URL == "" {
		return "", fmt.Errorf("asset %s has no download URL", asset.FileName)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, asset.URL, nil)
	if err != nil {
		return "", err
	}
	resp, err := getDefaultRetryableClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	checksumHash := sha256.New()
	n, err := io.Copy(checksumHash, io.TeeReader(resp.Body, w))
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", asset.FileName, err)
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		return "", fmt.Errorf("unexpected content length: %d (should be %d)", n, resp.ContentLength)
	}
	sum := hex.EncodeToString(checksumHash.Sum(nil))
	if sum != strings.ToLower(strings.TrimSpace(asset.Checksum)) {
		return sum, fmt.Errorf("%w: %s expected %s, got %s", ErrChecksumMismatch, asset.FileName, asset.Checksum, sum)
	}
	return sum, nil
}
