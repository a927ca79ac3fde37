package locator

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	oerrors "github.com/amdpack/cli/internal/errors"
	"github.com/amdpack/cli/internal/moduleid"
	"github.com/amdpack/cli/internal/output"
)

const (
	// DefaultCDNBaseURL is the jsDelivr npm endpoint.
	DefaultCDNBaseURL = "https://cdn.jsdelivr.net/npm"

	// DefaultCacheSize is the number of CDN responses kept in memory.
	DefaultCacheSize = 1024

	// maxBodyBytes is the upper bound on a single CDN response (64 MB).
	maxBodyBytes = 64 << 20

	defaultTimeout = 30 * time.Second
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Cache holds CDN responses keyed by URL. One cache may be shared by every
// JSDelivr locator of a build.
type Cache = lru.Cache[string, File]

// NewCache returns a CDN response cache holding up to size entries.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return lru.New[string, File](size)
}

// JSDelivr reads package files from the jsDelivr CDN at a pinned version.
type JSDelivr struct {
	client  Doer
	baseURL string
	pkg     Package
	version string
	cache   *Cache
	maxBody int64
}

// JSDelivrOption configures a JSDelivr locator during construction.
type JSDelivrOption func(*JSDelivr)

// WithHTTPClient sets the HTTP client. The client should not follow redirects:
// jsDelivr answers directory paths with a redirect.
func WithHTTPClient(c Doer) JSDelivrOption {
	return func(l *JSDelivr) {
		l.client = c
	}
}

// WithBaseURL overrides the CDN endpoint, primarily for test servers.
func WithBaseURL(base string) JSDelivrOption {
	return func(l *JSDelivr) {
		l.baseURL = strings.TrimRight(base, "/")
	}
}

// WithMaxBodySize caps the size of a single CDN response.
func WithMaxBodySize(n int64) JSDelivrOption {
	return func(l *JSDelivr) {
		l.maxBody = n
	}
}

// WithCache shares a response cache between locators.
func WithCache(c *Cache) JSDelivrOption {
	return func(l *JSDelivr) {
		l.cache = c
	}
}

// NewJSDelivr returns a CDN locator for pkg. Without a pinned version the
// package's package.json is fetched once to pin the version it reports, which
// also confirms the package exists.
func NewJSDelivr(ctx context.Context, pkg Package, opts ...JSDelivrOption) (*JSDelivr, error) {
	l := &JSDelivr{
		client: &http.Client{
			Timeout: defaultTimeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		baseURL: DefaultCDNBaseURL,
		pkg:     pkg,
		version: pkg.Version,
		maxBody: maxBodyBytes,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache == nil {
		cache, err := NewCache(DefaultCacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating CDN cache: %w", err)
		}
		l.cache = cache
	}

	if l.version == "" {
		u := l.baseURL + "/" + l.remoteName() + "/package.json"
		body, err := l.fetch(ctx, u)
		if err != nil {
			if errors.Is(err, oerrors.ErrNotFound) {
				return nil, oerrors.NewNotFoundError(
					fmt.Sprintf("cannot find npm package: %s", l.remoteName()),
					u,
					"check the package name or pin a version in the config",
				)
			}
			return nil, err
		}
		var meta struct {
			Version string `json:"version"`
		}
		if err := json.Unmarshal(body, &meta); err != nil {
			return nil, oerrors.NewParseError("invalid package.json", u, err)
		}
		if meta.Version == "" {
			return nil, oerrors.NewValidationError("package.json has no version", u, "pin a version in the config")
		}
		l.version = meta.Version
		output.Debug("pinned CDN version", "package", l.remoteName(), "version", l.version)
	}
	return l, nil
}

// Version returns the pinned package version.
func (l *JSDelivr) Version() string {
	return l.version
}

func (l *JSDelivr) remoteName() string {
	if l.pkg.Location != "" {
		return l.pkg.Location
	}
	return l.pkg.Name
}

func (l *JSDelivr) fileURL(rel string) string {
	return fmt.Sprintf("%s/%s@%s/%s", l.baseURL, l.remoteName(), l.version, rel)
}

// Locate fetches relPath from the pinned package version.
func (l *JSDelivr) Locate(ctx context.Context, relPath string) (*File, error) {
	rel := cleanRel(relPath)
	u := l.fileURL(rel)
	if f, ok := l.cache.Get(u); ok {
		return &f, nil
	}

	body, err := l.fetch(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}

	f := File{Path: u, Contents: string(body)}
	switch {
	case moduleid.Ext(rel) == ".wasm":
		f.Contents = base64.StdEncoding.EncodeToString(body)
	case rel == "package.json" && l.pkg.Location != "" && l.pkg.Location != l.pkg.Name:
		renamed, err := renameManifest(body, l.pkg.Name)
		if err != nil {
			return nil, oerrors.NewParseError("invalid package.json", u, err)
		}
		f.Contents = renamed
	}

	l.cache.Add(u, f)
	return &f, nil
}

// fetch GETs u. Redirects mean u names a directory.
func (l *JSDelivr) fetch(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, oerrors.NewConnectivityError(
			fmt.Sprintf("fetching %s: %v", u, err),
			map[string]string{"url": u},
			"check network access to the CDN",
		)
	}
	defer func() { _ = resp.Body.Close() }()

	output.Debug("fetched", "url", u, "status", resp.StatusCode)

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		return nil, ErrIsDirectory
	case resp.Request != nil && resp.Request.URL != nil && resp.Request.URL.Path != req.URL.Path:
		return nil, ErrIsDirectory
	case resp.StatusCode == http.StatusNotFound:
		return nil, oerrors.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, oerrors.NewConnectivityError(
			fmt.Sprintf("fetching %s: unexpected status %d", u, resp.StatusCode),
			map[string]string{"url": u},
			"",
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u, err)
	}
	if int64(len(body)) > l.maxBody {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("response exceeds %d bytes", l.maxBody),
			u,
			"",
		)
	}
	return body, nil
}

// renameManifest rewrites the name of an aliased package's manifest.
func renameManifest(body []byte, name string) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", err
	}
	encoded, err := json.Marshal(name)
	if err != nil {
		return "", err
	}
	fields["name"] = encoded
	out, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
