package release

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Chaebin-Park/GradleBuildProfiler/pkg/registry"
	"github.com/Masterminds/semver/v3"
	"github.com/google/go-github/v59/github"
	"github.com/hashicorp/go-retryablehttp"
)

// checksum files larger than this are not treated as checksum lists
const maxChecksumFileSize = 4096

var (
	defaultRetryableClient     *retryablehttp.Client
	defaultRetryableClientInit sync.Once
)

func getDefaultRetryableClient() *retryablehttp.Client {
	defaultRetryableClientInit.Do(func() {
		defaultRetryableClient = retryablehttp.NewClient()
		defaultRetryableClient.Logger = nil
		defaultRetryableClient.HTTPClient.Timeout = time.Minute
	})
	return defaultRetryableClient
}

func getOwnerRepo(fullRepo string) (string, string) {
	owner, repo, found := strings.Cut(fullRepo, "/")
	if !found {
		return "", ""
	}
	return owner, repo
}

func validateRelease(release *github.RepositoryRelease) error {
	if release.GetDraft() {
		return fmt.Errorf("release is a draft")
	}
	if _, err := semver.NewVersion(release.GetTagName()); err != nil {
		return fmt.Errorf("release is not a valid semver version: %w", err)
	}
	if len(release.Assets) == 0 {
		return fmt.Errorf("release has no assets")
	}
	return nil
}

func getGitHubRelease(ctx context.Context, ghClient *github.Client, fullRepo, tag string) (*github.RepositoryRelease, error) {
	owner, repo := getOwnerRepo(fullRepo)
	if owner == "" {
		return nil, fmt.Errorf("invalid repository %q, expected owner/repo", fullRepo)
	}
	release, _, err := ghClient.Repositories.GetReleaseByTag(ctx, owner, repo, tag)
	if err != nil {
		return nil, err
	}
	if err := validateRelease(release); err != nil {
		return nil, err
	}
	return release, nil
}

func getLatestGitHubRelease(ctx context.Context, ghClient *github.Client, fullRepo string) (*github.RepositoryRelease, error) {
	owner, repo := getOwnerRepo(fullRepo)
	if owner == "" {
		return nil, fmt.Errorf("invalid repository %q, expected owner/repo", fullRepo)
	}
	release, _, err := ghClient.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	if err := validateRelease(release); err != nil {
		return nil, err
	}
	return release, nil
}

func fetchText(ctx context.Context, url string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	res, err := getDefaultRetryableClient().Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// parseChecksums reads sha256sum style lines ("<sum>  <file>" or "<sum> *<file>").
func parseChecksums(content string) map[string]string {
	ret := make(map[string]string)
	for _, l := range strings.Split(content, "\n") {
		fields := strings.Fields(l)
		if len(fields) < 2 {
			continue
		}
		fileName := strings.TrimPrefix(fields[len(fields)-1], "*")
		ret[strings.ToLower(fileName)] = strings.ToLower(fields[0])
	}
	return ret
}

func fetchChecksumFile(ctx context.Context, url string) (map[string]string, error) {
	content, err := fetchText(ctx, url)
	if err != nil {
		return nil, err
	}
	return parseChecksums(content), nil
}

var osArchRe = regexp.MustCompile(`(?i)(aix|android|darwin|dragonfly|freebsd|illumos|linux|macos|netbsd|openbsd|solaris|windows)(_|-)(386|amd64|arm64|aarch64|x86_64|armv7|arm|ppc64le|ppc64|riscv64|s390x)(\.exe)?$`)

func isChecksumList(asset *github.ReleaseAsset) bool {
	return asset.GetSize() <= maxChecksumFileSize && strings.Contains(strings.ToLower(asset.GetName()), "checksums.txt")
}

func getReleaseAssets(ctx context.Context, gha []*github.ReleaseAsset) (map[string]*registry.Asset, error) {
	assets := make([]*registry.Asset, 0)
	sidecars := make(map[string]string)
	var checksumMap map[string]string
	for _, asset := range gha {
		fn := asset.GetName()
		switch {
		case checksumMap == nil && isChecksumList(asset):
			csMap, err := fetchChecksumFile(ctx, asset.GetBrowserDownloadURL())
			if err != nil {
				return nil, fmt.Errorf("failed to fetch checksums: %w", err)
			}
			checksumMap = csMap
			continue
		case strings.HasSuffix(strings.ToLower(fn), ".sha256"):
			sidecars[strings.ToLower(fn[:len(fn)-len(".sha256")])] = asset.GetBrowserDownloadURL()
			continue
		}
		assets = append(assets, &registry.Asset{
			FileName: fn,
			URL:      asset.GetBrowserDownloadURL(),
		})
	}

	ret := make(map[string]*registry.Asset)
	for _, a := range assets {
		osArch := osArchRe.FindStringSubmatch(a.FileName)
		if len(osArch) < 4 {
			continue
		}
		a.OS = registry.NormalizeOS(osArch[1])
		a.Arch = registry.NormalizeArch(osArch[3])
		key := strings.ToLower(a.FileName)
		if checksumMap != nil {
			a.Checksum = checksumMap[key]
		}
		if sidecarURL, ok := sidecars[key]; ok && a.Checksum == "" {
			content, err := fetchText(ctx, sidecarURL)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch checksum of %s: %w", a.FileName, err)
			}
			if fields := strings.Fields(content); len(fields) > 0 {
				a.Checksum = strings.ToLower(fields[0])
			}
		}
		ret[a.Platform()] = a
	}
	return ret, nil
}

func toRelease(ctx context.Context, fullRepo string, ghr *github.RepositoryRelease) (*registry.Release, error) {
	assets, err := getReleaseAssets(ctx, ghr.Assets)
	if err != nil {
		return nil, err
	}
	_, repo := getOwnerRepo(fullRepo)
	return &registry.Release{
		Name:     repo,
		Homepage: fmt.Sprintf("https://github.com/%s", fullRepo),
		Version:  semver.MustParse(ghr.GetTagName()).String(),
		Assets:   assets,
	}, nil
}
