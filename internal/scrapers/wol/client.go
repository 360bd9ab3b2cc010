// Package wol scrapes the online library: the weekly meeting index, study
// articles and the pages their anchors link to.
package wol

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
	"wt-summariser/internal/components/assert"
	"wt-summariser/internal/components/chrono"
	"wt-summariser/internal/components/telemetry"
	"wt-summariser/internal/document"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	report_client_locate_article = "client.locate-article"
	report_client_load_document  = "client.load-document"
	report_client_fetch_image    = "client.fetch-image"
)

var (
	// ErrFetch wraps every failure to retrieve a page or image.
	ErrFetch = errors.New("wol: fetch failed")
	// ErrArticleNotFound is returned when the meeting index has no study article link.
	ErrArticleNotFound = errors.New("wol: study article not found")
)

var tracer = otel.Tracer("wt-summariser/internal/scrapers/wol")

var (
	publicationQuery = document.Query{Tags: []string{"div"}, ClassContains: []string{"pub-w", "docId-"}}
	articleLinkQuery = document.ByClass("it", "a")
	// decorative nodes removed from every loaded page
	noiseQueries = []document.Query{
		document.ByClass("gen-field", "div"),
		document.ByClass("parNum", "span"),
	}
)

type Options struct {
	// BaseURL is the site root every relative link is resolved against.
	BaseURL string
	// MeetingPath is the path of the weekly meeting index, it is followed by <year>/<week>.
	MeetingPath string
	// UserAgents is the pool one user agent is picked from per client.
	UserAgents []string
	Timeout    time.Duration
	// RequestsPerSecond bounds the request rate of the whole client.
	RequestsPerSecond float64
	// DumpDir, when set, receives a file for every http exchange.
	DumpDir string
}

// Client is one browsing session, its cookie jar and rate limit are shared
// by every request made through it.
type Client struct {
	baseURL     *url.URL
	meetingPath string
	http        *resty.Client
	tel         telemetry.API
}

func NewClient(opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.BaseURL)

	tel = telemetry.NewScopedAPI("wol_scraper", tel)

	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/"))
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	if len(opts.UserAgents) > 0 {
		httpClient.SetHeader("user-agent", opts.UserAgents[rand.Intn(len(opts.UserAgents))])
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient.SetTimeout(timeout)

	limit := rate.Inf
	burst := 1
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		burst = max(1, int(opts.RequestsPerSecond))
	}
	rateLimiter := rate.NewLimiter(limit, burst)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)
	if opts.DumpDir != "" {
		dump, err := telemetry.NewHTTPDump(opts.DumpDir, tel)
		if err != nil {
			return nil, err
		}
		dump.Instrument(httpClient)
	}

	return &Client{
		baseURL:     baseURL,
		meetingPath: opts.MeetingPath,
		http:        httpClient,
		tel:         tel,
	}, nil
}

// resolve turns an href found in a page into an absolute url.
func (c *Client) resolve(href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

func (c *Client) get(ctx context.Context, target string) (*resty.Response, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, target, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s: %s", ErrFetch, target, res.Status())
	}
	return res, nil
}

// LoadDocument fetches and parses a page and strips its decorative nodes.
func (c *Client) LoadDocument(ctx context.Context, target string) (*document.Document, error) {
	ctx, span := tracer.Start(ctx, "LoadDocument")
	defer span.End()
	span.SetAttributes(attribute.String("url", target))

	res, err := c.get(ctx, target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}
	doc, err := document.ParseBytes(res.Body())
	if err != nil {
		c.tel.ReportBroken(report_client_load_document, fmt.Errorf("parse %s: %w", target, err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, target, err)
	}
	doc.Strip(noiseQueries...)
	return doc, nil
}

// FetchPage loads the page an anchor links to, href may be relative to the site root.
func (c *Client) FetchPage(ctx context.Context, href string) (document.Element, error) {
	target, err := c.resolve(href)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid href %q: %w", ErrFetch, href, err)
	}
	doc, err := c.LoadDocument(ctx, target)
	if err != nil {
		return nil, err
	}
	return doc.Root(), nil
}

// LocateArticle reads the meeting index of the given week and returns the
// absolute url of its study article.
func (c *Client) LocateArticle(ctx context.Context, week chrono.Week) (string, error) {
	ctx, span := tracer.Start(ctx, "LocateArticle")
	defer span.End()

	index := fmt.Sprintf("%s%d/%d", c.meetingPath, week.Year, week.Week)
	span.SetAttributes(attribute.String("index", index))

	page, err := c.FetchPage(ctx, index)
	if err != nil {
		c.tel.ReportBroken(report_client_locate_article, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch index failed")
		return "", err
	}

	publication, ok := page.First(publicationQuery)
	if !ok {
		return "", fmt.Errorf("%w: %s has no publication", ErrArticleNotFound, index)
	}
	anchors := publication.Anchors(ctx, c.baseURL.String(), articleLinkQuery)
	if len(anchors) == 0 {
		return "", fmt.Errorf("%w: %s has no article link", ErrArticleNotFound, index)
	}
	article := anchors[0].Href
	c.tel.ReportDebug("located article", week.String(), article)
	return article, nil
}

// FetchImage downloads an image and returns its bytes and media type.
func (c *Client) FetchImage(ctx context.Context, target string) ([]byte, string, error) {
	ctx, span := tracer.Start(ctx, "FetchImage")
	defer span.End()
	span.SetAttributes(attribute.String("url", target))

	res, err := c.get(ctx, target)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch_image, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, "", err
	}
	body := res.Body()
	mediaType := strings.TrimSpace(strings.Split(res.Header().Get("content-type"), ";")[0])
	if !strings.HasPrefix(mediaType, "image/") {
		mediaType = http.DetectContentType(body)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		mediaType = "image/jpeg"
	}
	return body, mediaType, nil
}
