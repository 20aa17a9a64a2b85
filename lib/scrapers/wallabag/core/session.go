package core

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"pocheclient/lib/scrapers/wallabag/page"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// an expired session is repaired at most once per call
	maxRelogins = 1
	// the original issue plus the retry after relogging in
	maxAttempts = 1 + maxRelogins
)

// ExecuteOptions tweaks Execute, the zero value checks statuses and logs in
// again when the session expired.
type ExecuteOptions struct {
	SkipStatusCheck bool
	NoRelogin       bool
}

func (c *Client) LoginRequest() Request {
	return Post(
		url.Values{
			"login":    {c.username},
			"password": {c.password},
		},
		Flag("login"),
	)
}

// CheckStatus turns a non 2xx response into a *StatusError.
func (c *Client) CheckStatus(res *resty.Response) error {
	if res.IsSuccess() {
		return nil
	}
	code := res.StatusCode()
	status := strings.TrimSpace(strings.TrimPrefix(res.Status(), strconv.Itoa(code)))
	slog.Warn(
		"response is not OK",
		"code", code,
		"status", status,
		"url", res.Request.URL,
	)
	return &StatusError{
		Code:    code,
		Status:  status,
		Message: c.messages.UnsuccessfulRequest(code, status),
	}
}

func (c *Client) issue(ctx context.Context, req Request, checkStatus bool) ([]byte, error) {
	res, err := c.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if checkStatus {
		err = c.CheckStatus(res)
		if err != nil {
			return nil, err
		}
	}
	return res.Body(), nil
}

// Login posts the stored credentials. It succeeds when the server answers
// with anything but the login form.
func (c *Client) Login(ctx context.Context) error {
	return c.login(ctx, true)
}

func (c *Client) login(ctx context.Context, checkStatus bool) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	body, err := c.issue(ctx, c.LoginRequest(), checkStatus)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}
	if c.classifier.IsLoginPage(body) {
		loginFailureCounter.Add(ctx, 1)
		err := &AuthError{
			Message: c.messages.WrongCredentials(),
			Notices: page.LoginMessages(body),
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Execute issues req and returns its body. When the server answers with the
// login form it logs in again and reissues req, once. The bool is false when
// the session could not be established or NoRelogin was set. Errors are
// reserved for transport failures, bad statuses and rejected credentials.
func (c *Client) Execute(ctx context.Context, req Request, opts ExecuteOptions) ([]byte, bool, error) {
	ctx, span := tracer.Start(ctx, "client:Execute")
	defer span.End()
	span.SetAttributes(
		attribute.String("request", req.String()),
		attribute.Bool("relogin", !opts.NoRelogin),
	)

	checkStatus := !opts.SkipStatusCheck
	relogins := 0

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, err := c.issue(ctx, req, checkStatus)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to execute request")
			return nil, false, err
		}
		if !c.classifier.IsLoginPage(body) {
			return body, true, nil
		}

		slog.DebugContext(ctx, "response is login page", "request", req.String(), "attempt", attempt)
		if opts.NoRelogin || relogins >= maxRelogins {
			span.SetStatus(codes.Error, "not authenticated")
			return nil, false, nil
		}

		relogins++
		reloginCounter.Add(ctx, 1)
		slog.DebugContext(ctx, "trying to re-login")
		err = c.login(ctx, checkStatus)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to re-login")
			return nil, false, err
		}
		slog.DebugContext(ctx, "re-login succeeded, re-executing request")
	}

	return nil, false, nil
}

// Run is Execute with default options for callers that only need to know
// whether the action went through.
func (c *Client) Run(ctx context.Context, req Request) (bool, error) {
	_, ok, err := c.Execute(ctx, req, ExecuteOptions{})
	return ok, err
}
