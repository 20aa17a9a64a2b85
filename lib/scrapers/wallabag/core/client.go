package core

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"pocheclient/lib/messages"
	"pocheclient/lib/restyutil"
	"pocheclient/lib/scrapers/wallabag/page"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const DefaultTimeout = time.Second * 30

// MaxRedirects bounds the redirects followed for a single request. The
// server answers logins and actions with a redirect, possibly to another
// host (www. or https), so any host is allowed.
const MaxRedirects = 10

type BasicAuth struct {
	Username string
	Password string
}

type ClientOptions struct {
	BaseUrl  string
	Username string
	Password string

	// credentials for servers sitting behind HTTP basic auth, optional
	HttpAuth *BasicAuth
	// if unspecified, DefaultTimeout is used
	Timeout          time.Duration
	CloudflareBypass bool

	// if unspecified, page.Default is used
	Classifier page.Classifier
	// if unspecified, messages.English is used
	Messages messages.Provider
}

// Client talks to one server with one set of credentials. Its cookie jar
// holds the session, so a Client must not be shared between goroutines
// that could log in at the same time.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	username   string
	password   string
	classifier page.Classifier
	messages   messages.Provider
}

// ParseEndpoint validates the endpoint and normalizes its path to a
// directory, which is what the server's relative links resolve against.
func ParseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEndpoint, err.Error())
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
		u.RawPath = ""
	}
	return u, nil
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := ParseEndpoint(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	if opts.HttpAuth != nil {
		client.SetBasicAuth(opts.HttpAuth.Username, opts.HttpAuth.Password)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client.SetTimeout(timeout)
	client.SetHeader("user-agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(MaxRedirects))

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	classifier := opts.Classifier
	if classifier == nil {
		classifier = page.Default
	}
	msgs := opts.Messages
	if msgs == nil {
		msgs = messages.English
	}

	c := &Client{
		BaseUrl:    baseUrl,
		Http:       client,
		username:   opts.Username,
		password:   opts.Password,
		classifier: classifier,
		messages:   msgs,
	}
	return c, nil
}

func (c *Client) Classifier() page.Classifier {
	return c.classifier
}

func (c *Client) Messages() messages.Provider {
	return c.messages
}

// URL is the absolute url a request would be sent to.
func (c *Client) URL(req Request) string {
	return req.URL(c.BaseUrl)
}

// Fetch issues req once and hands back the raw response. It neither checks
// the status nor looks at the body.
func (c *Client) Fetch(ctx context.Context, req Request) (*resty.Response, error) {
	r := c.Http.R().SetContext(ctx)
	if req.Form != nil {
		r.SetFormDataFromValues(req.Form)
	}
	method := req.Method
	if method == "" {
		method = resty.MethodGet
	}
	return r.Execute(method, c.URL(req))
}
