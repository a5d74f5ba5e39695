package jwk

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shogo82148/memoize"
)

// FetchFlags controls how a Fetcher resolves "x5u"/"jku" URLs.
type FetchFlags uint

const (
	// IgnoreServerCertificate disables TLS certificate verification
	// for the fetch. It is named for parity with the other flags; it
	// should only be set in test harnesses.
	IgnoreServerCertificate FetchFlags = 1 << iota

	// FollowRedirect allows the fetcher to follow HTTP redirects.
	// Without it, a redirect response is treated as a fetch failure.
	FollowRedirect

	// IgnoreRemote short-circuits the fetch entirely: the caller
	// behaves as if no URL were present, or returns an error wrapping
	// [joseerr.ErrUnsupported] when the remote material is required.
	IgnoreRemote
)

// Fetcher retrieves the bytes behind an "x5u" or "jku" URL. Tests inject
// a deterministic Fetcher instead of talking to the network; the zero
// value of DefaultFetcher is the production implementation.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL, flags FetchFlags) (data []byte, contentType string, err error)
}

// NoFetcher rejects every fetch. It is the default used by jwk/jws/jwe
// decoders that receive no explicit Fetcher, so that header-embedded
// remote references never reach the network unless a caller opts in.
var NoFetcher Fetcher = noFetcher{}

type noFetcher struct{}

func (noFetcher) Fetch(ctx context.Context, u *url.URL, flags FetchFlags) ([]byte, string, error) {
	return nil, "", fmt.Errorf("jwk: remote fetch is disabled for %s", u)
}

// Doer is the interface for performing an HTTP request, implemented by
// *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultFetcher is the production Fetcher: a synchronous HTTP GET that
// honors IgnoreServerCertificate and FollowRedirect, and deduplicates
// concurrent identical requests for the same URL.
type DefaultFetcher struct {
	// Doer performs the request. If nil, http.DefaultClient is used
	// for requests that don't need IgnoreServerCertificate.
	Doer Doer

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	group memoize.Group[string, fetchResult]
}

type fetchResult struct {
	data        []byte
	contentType string
}

const defaultFetcherUserAgent = "jose-fetcher/1.0"

// Fetch implements Fetcher.
func (f *DefaultFetcher) Fetch(ctx context.Context, u *url.URL, flags FetchFlags) ([]byte, string, error) {
	if flags&IgnoreRemote != 0 {
		return nil, "", errors.New("jwk: remote fetch disabled by IgnoreRemote")
	}
	if u == nil {
		return nil, "", errors.New("jwk: nil url")
	}

	key := u.String()
	result, _, err := f.group.Do(ctx, key, func(ctx context.Context, key string) (fetchResult, time.Time, error) {
		return f.fetch(ctx, u, flags)
	})
	if err != nil {
		return nil, "", err
	}
	return result.data, result.contentType, nil
}

// fetchDedupeWindow is how long DefaultFetcher coalesces concurrent
// identical requests for the same URL, the same shape the teacher's
// oidc.Client uses for its JWKS-URI memoize.Group.
const fetchDedupeWindow = 5 * time.Second

func (f *DefaultFetcher) fetch(ctx context.Context, u *url.URL, flags FetchFlags) (fetchResult, time.Time, error) {
	doer := f.Doer
	if doer == nil {
		doer = http.DefaultClient
	}
	if flags&IgnoreServerCertificate != 0 {
		doer = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // explicit opt-in via FetchFlags
			},
		}
	}
	if flags&FollowRedirect == 0 {
		if client, ok := doer.(*http.Client); ok {
			clone := *client
			clone.CheckRedirect = func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			}
			doer = &clone
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fetchResult{}, time.Time{}, err
	}
	userAgent := f.UserAgent
	if userAgent == "" {
		userAgent = defaultFetcherUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/jwk-set+json, application/pkix-cert, application/pkcs7-mime")

	resp, err := doer.Do(req)
	if err != nil {
		return fetchResult{}, time.Time{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fetchResult{}, time.Time{}, fmt.Errorf("jwk: unexpected response fetching %s: %s", u, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fetchResult{}, time.Time{}, err
	}
	result := fetchResult{data: data, contentType: resp.Header.Get("Content-Type")}
	return result, time.Now().Add(fetchDedupeWindow), nil
}
