package webreg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"
	"webweg/internal/components/chrono"
	"webweg/lib/htmlutil"
	"webweg/lib/restyutil"
	"webweg/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("platforms/webreg")

const (
	DefaultBaseUrl      = "https://act.ucsd.edu/webreg2"
	DefaultScheduleName = "My Schedule"
	// the portal answers with this (instead of JSON) when the session is
	// not associated with the requested term
	DefaultVerifyFailMarker = "Error: Verification failed"
	DefaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
)

const (
	report_client_request = "client.request"
)

type Options struct {
	// the raw Cookie header of a logged in browser session
	Cookies string
	// ex. "FA24"
	Term      string
	UserAgent string
	// defaults to DefaultBaseUrl
	BaseUrl string
	// defaults to 30 seconds
	Timeout time.Duration
	// defaults to 5, requests over the limit wait instead of failing
	RequestsPerSecond float64
	CloudflareBypass  bool
	// defaults to telemetry.SlogAPI
	Telemetry telemetry.API
	// defaults to chrono.NewStandardImpl
	Clock chrono.API
	// defaults to DefaultVerifyFailMarker
	VerifyFailMarker string
	// when set, every http exchange is written to it
	DumpOutput restyutil.InstrumentOutput
}

// Client makes authenticated requests to WebReg on behalf of a single
// session. The session cookies and term can be swapped between calls with
// SetCookies and SetTerm, it is safe to use from multiple goroutines.
type Client struct {
	http             *resty.Client
	tel              telemetry.API
	clock            chrono.API
	verifyFailMarker []byte

	cookies atomic.Pointer[string]
	term    atomic.Pointer[string]
}

func NewClient(opts Options) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	if opts.VerifyFailMarker == "" {
		opts.VerifyFailMarker = DefaultVerifyFailMarker
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.SlogAPI{}
	}
	if opts.Clock == nil {
		clock, err := chrono.NewStandardImpl()
		if err != nil {
			return nil, err
		}
		opts.Clock = clock
	}

	_, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, &InputError{Field: "base url", Message: err.Error()}
	}

	tel := telemetry.NewScopedAPI("webreg", opts.Telemetry)

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetTimeout(opts.Timeout)

	// burst >= 1 so no request is ever dropped, only delayed
	rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), max(int(opts.RequestsPerSecond), 1))
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel, "platforms/webreg/http")
	restyutil.InstrumentClient(httpClient, "webreg-", opts.DumpOutput)

	c := &Client{
		http:             httpClient,
		tel:              tel,
		clock:            opts.Clock,
		verifyFailMarker: []byte(opts.VerifyFailMarker),
	}
	c.SetCookies(opts.Cookies)
	c.SetTerm(opts.Term)
	return c, nil
}

func (c *Client) SetCookies(cookies string) {
	c.cookies.Store(&cookies)
}

func (c *Client) Cookies() string {
	return *c.cookies.Load()
}

func (c *Client) SetTerm(term string) {
	c.term.Store(&term)
}

func (c *Client) Term() string {
	return *c.term.Load()
}

func (c *Client) epochMillis() string {
	return strconv.FormatInt(chrono.EpochMillis(c.clock), 10)
}

// report sends err to telemetry as breakage, rejections by the portal and
// bad input are expected in normal use so they are only warnings.
func (c *Client) report(id string, err error) {
	var portalErr *PortalError
	var inputErr *InputError
	if errors.As(err, &portalErr) || errors.As(err, &inputErr) {
		c.tel.ReportWarning(id, err)
		return
	}
	c.tel.ReportBroken(id, err)
}

func looksLikeHtml(body []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(body), []byte("<"))
}

// send performs a request and returns the body once it is known to not be
// an error page of any kind.
func (c *Client) send(ctx context.Context, method string, endpoint Endpoint, params url.Values) ([]byte, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("cookie", c.Cookies())

	var res *resty.Response
	var err error
	switch method {
	case "POST":
		res, err = req.SetFormDataFromValues(params).Post(string(endpoint))
	default:
		res, err = req.SetQueryParamsFromValues(params).Get(string(endpoint))
	}
	if err != nil {
		return nil, &TransportError{Op: fmt.Sprintf("%s %s", method, endpoint), Err: err}
	}
	c.tel.ReportDebug(report_client_request, method, endpoint, res.StatusCode())
	if !res.IsSuccess() {
		return nil, &StatusCodeError{Code: res.StatusCode()}
	}

	body := res.Body()
	if looksLikeHtml(body) && htmlutil.IsLoginPage(ctx, body) {
		return nil, ErrSessionExpired
	}
	if bytes.Contains(body, c.verifyFailMarker) {
		return nil, ErrWrongTerm
	}
	return body, nil
}

func getJson[T any](ctx context.Context, c *Client, endpoint Endpoint, params url.Values) (T, error) {
	var out T
	body, err := c.send(ctx, "GET", endpoint, params)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(body, &out)
	if err != nil {
		return out, &DecodeError{Err: err}
	}
	return out, nil
}

// postForm submits a mutation, the portal answers every mutation with
// {"OPS": "SUCCESS"} or {"OPS": "FAIL", "REASON": "..."}.
func (c *Client) postForm(ctx context.Context, endpoint Endpoint, form url.Values) error {
	body, err := c.send(ctx, "POST", endpoint, form)
	if err != nil {
		return err
	}
	var res rawPostResponse
	err = json.Unmarshal(body, &res)
	if err != nil {
		return &DecodeError{Err: err}
	}
	if res.Ops == "SUCCESS" {
		return nil
	}
	return &PortalError{Reason: htmlutil.StripTags(res.Reason)}
}
