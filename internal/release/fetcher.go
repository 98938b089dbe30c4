package release

import (
	"context"
	"fmt"
	"time"

	"github.com/Chaebin-Park/GradleBuildProfiler/pkg/registry"
	"github.com/google/go-github/v59/github"
	"github.com/patrickmn/go-cache"
)

const latestTag = "latest"

// Fetcher resolves GitHub releases into release descriptors. Lookups are
// cached for the lifetime of the process.
type Fetcher struct {
	gh    *github.Client
	cache *cache.Cache
}

func NewFetcher(gh *github.Client) *Fetcher {
	return &Fetcher{
		gh:    gh,
		cache: cache.New(10*time.Minute, 15*time.Minute),
	}
}

func cacheKey(repo, tag string) string {
	return fmt.Sprintf("%s@%s", repo, tag)
}

// Get resolves the release tagged tag. The tag "latest" (or an empty tag)
// resolves the most recent published release.
func (f *Fetcher) Get(ctx context.Context, repo, tag string) (*registry.Release, error) {
	if tag == "" {
		tag = latestTag
	}
	k := cacheKey(repo, tag)
	if v, ok := f.cache.Get(k); ok {
		return v.(*registry.Release), nil
	}

	var (
		ghr *github.RepositoryRelease
		err error
	)
	if tag == latestTag {
		ghr, err = getLatestGitHubRelease(ctx, f.gh, repo)
	} else {
		ghr, err = getGitHubRelease(ctx, f.gh, repo, tag)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get release %s: %w", k, err)
	}
	rel, err := toRelease(ctx, repo, ghr)
	if err != nil {
		return nil, fmt.Errorf("failed to read assets of %s: %w", k, err)
	}
	f.cache.Set(k, rel, cache.DefaultExpiration)
	return rel, nil
}

func (f *Fetcher) Latest(ctx context.Context, repo string) (*registry.Release, error) {
	return f.Get(ctx, repo, latestTag)
}
