package feeds

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"pocheclient/lib/scrapers/wallabag/core"
	"pocheclient/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const (
	configQuery   = "view=config"
	generateQuery = "feed&action=generate"
)

func newClient(t *testing.T, baseUrl string) Client {
	t.Helper()
	coreClient, err := core.NewClient(context.Background(), core.ClientOptions{
		BaseUrl:  baseUrl,
		Username: "poche",
		Password: "secret",
		Timeout:  time.Second * 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewClient(coreClient)
}

func TestFindCredentials(t *testing.T) {
	creds, found := FindCredentials([]byte(testutil.ConfigPage(42, "abc123")))
	require.True(t, found)
	require.Equal(t, Credentials{UserID: "42", Token: "abc123"}, creds)

	_, found = FindCredentials([]byte(testutil.ConfigPage(42, "")))
	require.False(t, found)

	// unescaped links are not what the server renders
	_, found = FindCredentials([]byte(`"?feed&type=home&user_id=1&token=abc"`))
	require.False(t, found)

	_, found = FindCredentials(nil)
	require.False(t, found)
}

func TestRequests(t *testing.T) {
	require.Equal(t, "view=config", ConfigRequest().Query())
	require.Equal(t, "feed&action=generate", GenerateTokenRequest().Query())

	base, err := core.ParseEndpoint("https://read.example.com/poche")
	require.Nil(t, err)
	require.Equal(
		t,
		"https://read.example.com/poche/?feed&type=fav&user_id=42&token=abc123",
		URL(base, Credentials{UserID: "42", Token: "abc123"}, Favorites),
	)
}

func TestParseType(t *testing.T) {
	for _, s := range []string{"home", "fav", "archive"} {
		feedType, ok := ParseType(s)
		require.True(t, ok)
		require.Equal(t, Type(s), feedType)
	}
	_, ok := ParseType("unread")
	require.False(t, ok)
}

func TestCredentialsPresent(t *testing.T) {
	server := testutil.NewScriptedServer(t)
	server.Script(configQuery, testutil.OK(testutil.ConfigPage(42, "abc123")))

	creds, found, err := newClient(t, server.URL).Credentials(context.Background())
	require.Nil(t, err)
	require.True(t, found)
	require.Equal(t, Credentials{UserID: "42", Token: "abc123"}, creds)
	require.Equal(t, 0, server.Count(generateQuery))
	require.Equal(t, 1, server.Count(configQuery))
}

func TestCredentialsGeneratedOnce(t *testing.T) {
	server := testutil.NewScriptedServer(t)
	server.Script(
		configQuery,
		testutil.OK(testutil.ConfigPage(42, "")),
		testutil.OK(testutil.ConfigPage(42, "fresh1")),
	)
	server.Script(generateQuery, testutil.OK(testutil.HomePage))

	creds, found, err := newClient(t, server.URL).Credentials(context.Background())
	require.Nil(t, err)
	require.True(t, found)
	require.Equal(t, Credentials{UserID: "42", Token: "fresh1"}, creds)
	require.Equal(t, []string{configQuery, generateQuery, configQuery}, server.Order())
}

func TestCredentialsGiveUpAfterOneRetry(t *testing.T) {
	server := testutil.NewScriptedServer(t)
	server.Script(configQuery, testutil.OK(testutil.ConfigPage(42, "")))
	server.Script(generateQuery, testutil.OK(testutil.HomePage))

	_, found, err := newClient(t, server.URL).Credentials(context.Background())
	require.Nil(t, err)
	require.False(t, found)
	require.Equal(t, 1, server.Count(generateQuery))
	require.Equal(t, 2, server.Count(configQuery))
}

func TestCredentialsNotAuthenticated(t *testing.T) {
	server := testutil.NewScriptedServer(t)
	server.Script(configQuery, testutil.OK(testutil.LoginPage))
	server.Script("login", testutil.OK(testutil.HomePage))

	_, found, err := newClient(t, server.URL).Credentials(context.Background())
	require.Nil(t, err)
	require.False(t, found)
	require.Equal(t, 0, server.Count(generateQuery))
}

func TestCredentialsGenerateFails(t *testing.T) {
	server := testutil.NewScriptedServer(t)
	server.Script(configQuery, testutil.OK(testutil.ConfigPage(42, "")))
	server.Script(generateQuery, testutil.Reply{Status: http.StatusInternalServerError})

	_, found, err := newClient(t, server.URL).Credentials(context.Background())
	require.False(t, found)

	var statusErr *core.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, 1, server.Count(configQuery))
}

func TestCredentialsAndFeedAgainstSession(t *testing.T) {
	server := testutil.NewWallabag(t, "poche", "secret")
	server.SetFeedItems("First article", "Second article")
	client := newClient(t, server.URL)
	ctx := context.Background()

	creds, found, err := client.Credentials(ctx)
	require.Nil(t, err)
	require.True(t, found)
	require.Equal(t, "1", creds.UserID)
	require.Equal(t, server.Token(), creds.Token)
	require.NotEmpty(t, creds.Token)

	again, found, err := client.Credentials(ctx)
	require.Nil(t, err)
	require.True(t, found)
	require.Equal(t, creds, again)

	feed, err := client.Fetch(ctx, creds, Home)
	require.Nil(t, err)
	expected := Feed{
		Title: "poche - home feed",
		Items: []Item{
			{
				Title:     "First article",
				Link:      "https://example.com/articles/1",
				Published: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			},
			{
				Title:     "Second article",
				Link:      "https://example.com/articles/2",
				Published: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
			},
		},
	}
	if diff := cmp.Diff(expected, feed); diff != "" {
		t.Fatalf("unexpected feed (-want +got):\n%s", diff)
	}
}

func TestFetchRejectedToken(t *testing.T) {
	server := testutil.NewWallabag(t, "poche", "secret")
	server.SetToken("realtoken")
	client := newClient(t, server.URL)

	_, err := client.Fetch(context.Background(), Credentials{UserID: "1", Token: "wrong"}, Archive)
	var statusErr *core.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusForbidden, statusErr.Code)
}
