// Package feeds mines the feed credentials out of the configuration page and
// reads the personal feeds they unlock. The server offers no endpoint for
// the credentials, only links embedded in the page.
package feeds

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"time"

	"pocheclient/lib/scrapers/wallabag/core"

	"github.com/mmcdole/gofeed"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("pocheclient.lib.scrapers.wallabag.feeds")

type Credentials struct {
	UserID string
	Token  string
}

type Type string

const (
	Home      Type = "home"
	Favorites Type = "fav"
	Archive   Type = "archive"
)

func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case Home, Favorites, Archive:
		return Type(s), true
	}
	return "", false
}

// the link is html escaped inside an href attribute, hence the &amp;
var credentialsRegex = regexp.MustCompile(`"\?feed&amp;type=home&amp;user_id=(\d+)&amp;token=([a-zA-Z0-9]+)"`)

func FindCredentials(body []byte) (Credentials, bool) {
	groups := credentialsRegex.FindSubmatch(body)
	if len(groups) < 3 {
		return Credentials{}, false
	}
	return Credentials{
		UserID: string(groups[1]),
		Token:  string(groups[2]),
	}, true
}

func ConfigRequest() core.Request {
	return core.Get(core.Value("view", "config"))
}

func GenerateTokenRequest() core.Request {
	return core.Get(core.Flag("feed"), core.Value("action", "generate"))
}

func FeedRequest(creds Credentials, feedType Type) core.Request {
	return core.Get(
		core.Flag("feed"),
		core.Value("type", string(feedType)),
		core.Value("user_id", creds.UserID),
		core.Value("token", creds.Token),
	)
}

// URL is the address of a feed, usable by any feed reader.
func URL(base *url.URL, creds Credentials, feedType Type) string {
	return FeedRequest(creds, feedType).URL(base)
}

type Client struct {
	Core *core.Client
}

func NewClient(coreClient *core.Client) Client {
	return Client{Core: coreClient}
}

func (c Client) findInConfig(ctx context.Context) (Credentials, bool, bool, error) {
	body, ok, err := c.Core.Execute(ctx, ConfigRequest(), core.ExecuteOptions{})
	if err != nil || !ok {
		return Credentials{}, false, ok, err
	}
	creds, found := FindCredentials(body)
	return creds, found, true, nil
}

// Credentials reads the feed credentials from the configuration page. When
// the page has none it asks the server to generate a token and looks once
// more. The bool is false when no credentials could be found, which is not
// an error.
func (c Client) Credentials(ctx context.Context) (Credentials, bool, error) {
	ctx, span := tracer.Start(ctx, "client:Credentials")
	defer span.End()

	creds, found, authenticated, err := c.findInConfig(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch config page (1)")
		return Credentials{}, false, err
	}
	if !authenticated {
		span.SetStatus(codes.Error, "not authenticated")
		return Credentials{}, false, nil
	}
	if found {
		return creds, true, nil
	}

	slog.DebugContext(ctx, "no feed token on config page, generating one")
	_, err = c.Core.Run(ctx, GenerateTokenRequest())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate token")
		return Credentials{}, false, err
	}

	creds, found, _, err = c.findInConfig(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch config page (2)")
		return Credentials{}, false, err
	}
	if !found {
		span.SetStatus(codes.Error, "no feed credentials")
		return Credentials{}, false, nil
	}
	return creds, true, nil
}

type Item struct {
	Title     string
	Link      string
	Published time.Time
}

type Feed struct {
	Title string
	Items []Item
}

func fromGofeed(parsed *gofeed.Feed) Feed {
	feed := Feed{Title: parsed.Title}
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		converted := Item{
			Title: item.Title,
			Link:  item.Link,
		}
		if item.PublishedParsed != nil {
			converted.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			converted.Published = *item.UpdatedParsed
		}
		feed.Items = append(feed.Items, converted)
	}
	return feed
}

// Fetch downloads and parses one feed. Feeds are authorized by the token
// alone, so this never logs in.
func (c Client) Fetch(ctx context.Context, creds Credentials, feedType Type) (Feed, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("feed_type", string(feedType)))

	res, err := c.Core.Fetch(ctx, FeedRequest(creds, feedType))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch feed")
		return Feed{}, err
	}
	err = c.Core.CheckStatus(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "feed request was rejected")
		return Feed{}, err
	}

	parsed, err := gofeed.NewParser().ParseString(res.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse feed")
		return Feed{}, err
	}
	return fromGofeed(parsed), nil
}
