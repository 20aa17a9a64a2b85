package edit

import (
	"context"
	"strconv"

	"pocheclient/lib/scrapers/wallabag/core"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("pocheclient.lib.scrapers.wallabag.edit")

type Client struct {
	Core *core.Client
}

func NewClient(coreClient *core.Client) Client {
	return Client{Core: coreClient}
}

func AddLinkRequest(link string) core.Request {
	return core.Get(core.Value("plainurl", link))
}

func articleRequest(action string, articleId int) core.Request {
	return core.Get(
		core.Value("action", action),
		core.Value("id", strconv.Itoa(articleId)),
	)
}

func ToggleArchiveRequest(articleId int) core.Request {
	return articleRequest("toggle_archive", articleId)
}

func ToggleFavoriteRequest(articleId int) core.Request {
	return articleRequest("toggle_fav", articleId)
}

func DeleteArticleRequest(articleId int) core.Request {
	return articleRequest("delete", articleId)
}

func (c Client) run(ctx context.Context, name string, req core.Request, attrs ...attribute.KeyValue) (bool, error) {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()
	span.SetAttributes(attrs...)

	ok, err := c.Core.Run(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to execute action")
		return false, err
	}
	if !ok {
		span.SetStatus(codes.Error, "not authenticated")
	}
	return ok, nil
}

// AddLink asks the server to fetch and save link.
func (c Client) AddLink(ctx context.Context, link string) (bool, error) {
	return c.run(ctx, "client:AddLink", AddLinkRequest(link), attribute.String("link", link))
}

func (c Client) ToggleArchive(ctx context.Context, articleId int) (bool, error) {
	return c.run(ctx, "client:ToggleArchive", ToggleArchiveRequest(articleId), attribute.Int("article_id", articleId))
}

func (c Client) ToggleFavorite(ctx context.Context, articleId int) (bool, error) {
	return c.run(ctx, "client:ToggleFavorite", ToggleFavoriteRequest(articleId), attribute.Int("article_id", articleId))
}

func (c Client) DeleteArticle(ctx context.Context, articleId int) (bool, error) {
	return c.run(ctx, "client:DeleteArticle", DeleteArticleRequest(articleId), attribute.Int("article_id", articleId))
}
