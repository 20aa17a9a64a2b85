// Package probe diagnoses why a server would not work with the client,
// before it is used for anything else. Probing logs in, so it changes the
// session of the client it runs on.
package probe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"pocheclient/lib/scrapers/wallabag/core"
	"pocheclient/lib/scrapers/wallabag/page"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("pocheclient.lib.scrapers.wallabag.probe")

type Code int

const (
	// logged in, or the server does its access control over HTTP
	CodeOK Code = iota
	// the endpoint answered with something that is not this application
	CodeNotAnInstance
	CodeBadCredentials
	// login worked but the next request was anonymous again, usually cookies
	CodeSessionLost
	// logged in but the page lacks the logout link
	CodeUnexpectedContent
	CodeHttpAuthRequired
	CodeBadEndpoint
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeNotAnInstance:
		return "not an instance"
	case CodeBadCredentials:
		return "bad credentials"
	case CodeSessionLost:
		return "session lost"
	case CodeUnexpectedContent:
		return "unexpected content"
	case CodeHttpAuthRequired:
		return "http auth required"
	case CodeBadEndpoint:
		return "bad endpoint"
	default:
		return "unknown"
	}
}

func AboutRequest() core.Request {
	return core.Get(core.Value("view", "about"))
}

// state is shared by the steps of one probe.
type state struct {
	client *core.Client
	body   []byte
}

// a step either settles the result (done) or lets the next step run
type step struct {
	name string
	run  func(ctx context.Context, s *state) (code Code, done bool, err error)
}

var steps = []step{
	{name: "probe anonymously", run: probeAnonymous},
	{name: "classify anonymous page", run: classifyAnonymous},
	{name: "login", run: login},
	{name: "probe again", run: probeAgain},
	{name: "classify page after login", run: classifyAfterLogin},
}

func probeAnonymous(ctx context.Context, s *state) (Code, bool, error) {
	res, err := s.client.Fetch(ctx, AboutRequest())
	if err != nil {
		return 0, true, err
	}
	if res.StatusCode() == http.StatusUnauthorized {
		return CodeHttpAuthRequired, true, nil
	}
	s.body = res.Body()
	return 0, false, nil
}

func classifyAnonymous(ctx context.Context, s *state) (Code, bool, error) {
	switch page.Classify(s.client.Classifier(), s.body) {
	case page.RegularPage:
		return CodeOK, true, nil
	case page.LoginPage:
		return 0, false, nil
	default:
		return CodeNotAnInstance, true, nil
	}
}

func login(ctx context.Context, s *state) (Code, bool, error) {
	res, err := s.client.Fetch(ctx, s.client.LoginRequest())
	if err != nil {
		return 0, true, err
	}
	if s.client.Classifier().IsLoginPage(res.Body()) {
		return CodeBadCredentials, true, nil
	}
	return 0, false, nil
}

func probeAgain(ctx context.Context, s *state) (Code, bool, error) {
	res, err := s.client.Fetch(ctx, AboutRequest())
	if err != nil {
		return 0, true, err
	}
	s.body = res.Body()
	return 0, false, nil
}

func classifyAfterLogin(ctx context.Context, s *state) (Code, bool, error) {
	switch page.Classify(s.client.Classifier(), s.body) {
	case page.LoginPage:
		return CodeSessionLost, true, nil
	case page.RegularPage:
		return CodeOK, true, nil
	default:
		return CodeUnexpectedContent, true, nil
	}
}

// Run walks the probe steps against client. Transport failures are returned
// as errors, every other outcome is a Code.
func Run(ctx context.Context, client *core.Client) (Code, error) {
	ctx, span := tracer.Start(ctx, "probe:Run")
	defer span.End()

	s := &state{client: client}
	for _, st := range steps {
		code, done, err := st.run(ctx, s)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to "+st.name)
			return 0, err
		}
		if done {
			slog.DebugContext(ctx, "probe finished", "step", st.name, "code", code.String())
			span.SetAttributes(attribute.Int("code", int(code)), attribute.String("step", st.name))
			return code, nil
		}
	}

	// classifyAfterLogin always settles
	return CodeUnexpectedContent, nil
}

// TestConnection validates the endpoint before building a client for it,
// an endpoint that does not parse yields CodeBadEndpoint.
func TestConnection(ctx context.Context, opts core.ClientOptions) (Code, error) {
	client, err := core.NewClient(ctx, opts)
	if errors.Is(err, core.ErrInvalidEndpoint) {
		return CodeBadEndpoint, nil
	}
	if err != nil {
		return 0, err
	}
	return Run(ctx, client)
}
