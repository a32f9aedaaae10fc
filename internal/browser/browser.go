package browser

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"omnivox-backend/internal/components/assert"
	"omnivox-backend/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const report_browser_fetch = "browser.fetch"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type Options struct {
	// Timeout bounds a single page fetch, zero means 10 seconds.
	Timeout time.Duration
	// RequestsPerSecond limits the request rate, zero or less disables the limit.
	RequestsPerSecond float64
	BypassCloudflare  bool
	UserAgent         string
}

// Browser is a cookie keeping http client that returns parsed pages. One Browser holds one
// portal session and is not meant to be shared between sessions.
type Browser struct {
	BaseUrl *url.URL
	Http    *resty.Client

	tel telemetry.API
}

func New(baseUrl string, opts Options, tel telemetry.API) (*Browser, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(baseUrl)

	parsedBaseUrl, err := url.Parse(baseUrl)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	if opts.BypassCloudflare {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	httpClient.SetHeader("user-agent", userAgent)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsedBaseUrl.Hostname()))

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient.SetTimeout(timeout)

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	rateLimiter := rate.NewLimiter(limit, max(int(opts.RequestsPerSecond), 1))
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)

	return &Browser{
		BaseUrl: parsedBaseUrl,
		Http:    httpClient,
		tel:     tel,
	}, nil
}

// Resolve resolves a possibly relative reference against the base url.
func (b *Browser) Resolve(ref string) (*url.URL, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	return b.BaseUrl.ResolveReference(parsed), nil
}

func (b *Browser) Get(ctx context.Context, target string) (*Page, error) {
	return b.Fetch(ctx, http.MethodGet, target, nil)
}

func (b *Browser) Post(ctx context.Context, target string, form url.Values) (*Page, error) {
	return b.Fetch(ctx, http.MethodPost, target, form)
}

// Fetch requests target (resolved against the base url) and parses the response as html.
// form, when not nil, is sent url encoded. Status codes of 400 and above are errors.
func (b *Browser) Fetch(ctx context.Context, method, target string, form url.Values) (*Page, error) {
	resolved, err := b.Resolve(target)
	if err != nil {
		return nil, fmt.Errorf("resolve '%s': %w", target, err)
	}

	req := b.Http.R().SetContext(ctx)
	if form != nil {
		req.SetFormDataFromValues(form)
	}
	res, err := req.Execute(method, resolved.String())
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, resolved, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%s %s: unexpected status %d", method, resolved, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		b.tel.ReportBroken(report_browser_fetch, fmt.Errorf("parse html: %w", err), resolved.String())
		return nil, fmt.Errorf("parse %s: %w", resolved, err)
	}

	final := resolved
	if res.RawResponse != nil && res.RawResponse.Request != nil && res.RawResponse.Request.URL != nil {
		final = res.RawResponse.Request.URL
	}

	return &Page{
		browser: b,
		url:     final,
		doc:     doc,
	}, nil
}
