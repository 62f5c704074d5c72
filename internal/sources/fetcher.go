package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/maltedev/coupon-finder/internal/cache"
	"github.com/maltedev/coupon-finder/internal/extractor"
	"github.com/maltedev/coupon-finder/internal/models"
	"github.com/maltedev/coupon-finder/internal/ratelimit"
)

const (
	DefaultReaderBaseURL = "https://r.jina.ai/"
	DefaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var ErrProxyStatus = errors.New("reader proxy returned an error status")

// Result holds the codes one source produced.
type Result struct {
	Source string
	Codes  []string
}

type Options struct {
	ReaderBaseURL string
	UserAgent     string
	Timeout       time.Duration
}

func DefaultOptions() *Options {
	return &Options{
		ReaderBaseURL: DefaultReaderBaseURL,
		UserAgent:     DefaultUserAgent,
		Timeout:       20 * time.Second,
	}
}

// Fetcher retrieves source pages through a text-extraction proxy and runs the
// extractor over whatever comes back.
type Fetcher struct {
	client    *resty.Client
	baseURL   string
	extractor *extractor.Extractor
	limiter   ratelimit.RateLimiter
	cache     cache.TextCache
	logger    *slog.Logger
}

func NewFetcher(opts *Options, ext *extractor.Extractor, limiter ratelimit.RateLimiter, textCache cache.TextCache, logger *slog.Logger) *Fetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	if ext == nil {
		ext = extractor.New(extractor.DefaultBrand)
	}
	if limiter == nil {
		limiter = ratelimit.NewTokenBucket(0, 1)
	}
	if textCache == nil {
		textCache = cache.Nop{}
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "text/plain, text/html;q=0.9, */*;q=0.8")

	return &Fetcher{
		client:    client,
		baseURL:   opts.ReaderBaseURL,
		extractor: ext,
		limiter:   limiter,
		cache:     textCache,
		logger:    logger.With("component", "source_fetcher"),
	}
}

// ReaderURL wraps raw in the proxy URL. The absolute URL is appended as-is,
// without percent-encoding; a missing scheme defaults to https.
func ReaderURL(base, raw string) string {
	if !strings.HasPrefix(raw, "http") {
		raw = "https://" + raw
	}
	return base + raw
}

// Fetch returns the codes found on src for region. Transport and proxy errors
// are returned; an empty page is not an error.
func (f *Fetcher) Fetch(ctx context.Context, src models.Source, region models.Region) (Result, error) {
	url := ReaderURL(f.baseURL, src.URL(region))

	text, err := f.readText(ctx, url)
	if err != nil {
		return Result{Source: src.Name}, fmt.Errorf("failed to fetch %s: %w", src.Name, err)
	}

	codes := f.extractor.Extract(text)
	if len(codes) == 0 {
		// the proxy occasionally hands back markup instead of text
		codes = f.extractor.Extract(visibleBodyText(text))
	}

	f.logger.Debug("source fetched", "source", src.Name, "region", region, "codes", len(codes))

	return Result{Source: src.Name, Codes: codes}, nil
}

func (f *Fetcher) readText(ctx context.Context, url string) (string, error) {
	if text, ok := f.cache.Get(ctx, url); ok {
		return text, nil
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		f.limiter.Throttle()
		f.logger.Warn("reader proxy is rate limiting, slowing down", "url", url)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: %d", ErrProxyStatus, resp.StatusCode())
	}

	text := resp.String()
	f.cache.Set(ctx, url, text)

	return text, nil
}

func visibleBodyText(text string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()
	return doc.Find("body").Text()
}
