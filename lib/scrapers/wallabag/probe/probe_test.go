package probe

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"pocheclient/lib/scrapers/wallabag/core"
	"pocheclient/lib/testutil"

	"github.com/stretchr/testify/require"
)

const (
	aboutQuery = "view=about"
	loginQuery = "login"
)

func options(baseUrl string) core.ClientOptions {
	return core.ClientOptions{
		BaseUrl:  baseUrl,
		Username: "poche",
		Password: "secret",
		Timeout:  time.Second * 5,
	}
}

func TestScriptedBranches(t *testing.T) {
	testCases := []struct {
		name     string
		about    []testutil.Reply
		login    []testutil.Reply
		expected Code
		abouts   int
		logins   int
	}{
		{
			name:     "http auth required",
			about:    []testutil.Reply{{Status: http.StatusUnauthorized, Body: testutil.LoginPage}},
			expected: CodeHttpAuthRequired,
			abouts:   1,
		},
		{
			name:     "already authenticated",
			about:    []testutil.Reply{testutil.OK(testutil.HomePage)},
			expected: CodeOK,
			abouts:   1,
		},
		{
			name:     "not an instance",
			about:    []testutil.Reply{testutil.OK(testutil.UnrelatedPage)},
			expected: CodeNotAnInstance,
			abouts:   1,
		},
		{
			name:     "empty anonymous page",
			about:    []testutil.Reply{testutil.OK("")},
			expected: CodeNotAnInstance,
			abouts:   1,
		},
		{
			name:     "bad credentials",
			about:    []testutil.Reply{testutil.OK(testutil.LoginPage)},
			login:    []testutil.Reply{testutil.OK(testutil.FailedLoginPage)},
			expected: CodeBadCredentials,
			abouts:   1,
			logins:   1,
		},
		{
			name:     "session lost",
			about:    []testutil.Reply{testutil.OK(testutil.LoginPage)},
			login:    []testutil.Reply{testutil.OK(testutil.HomePage)},
			expected: CodeSessionLost,
			abouts:   2,
			logins:   1,
		},
		{
			name:     "unexpected content after login",
			about:    []testutil.Reply{testutil.OK(testutil.LoginPage), testutil.OK(testutil.UnrelatedPage)},
			login:    []testutil.Reply{testutil.OK(testutil.HomePage)},
			expected: CodeUnexpectedContent,
			abouts:   2,
			logins:   1,
		},
		{
			name:     "success",
			about:    []testutil.Reply{testutil.OK(testutil.LoginPage), testutil.OK(testutil.HomePage)},
			login:    []testutil.Reply{testutil.OK(testutil.HomePage)},
			expected: CodeOK,
			abouts:   2,
			logins:   1,
		},
		{
			name: "statuses other than 401 are not inspected",
			about: []testutil.Reply{
				{Status: http.StatusInternalServerError, Body: testutil.LoginPage},
				{Status: http.StatusInternalServerError, Body: testutil.HomePage},
			},
			login:    []testutil.Reply{{Status: http.StatusInternalServerError, Body: testutil.HomePage}},
			expected: CodeOK,
			abouts:   2,
			logins:   1,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			server := testutil.NewScriptedServer(t)
			server.Script(aboutQuery, test.about...)
			if len(test.login) > 0 {
				server.Script(loginQuery, test.login...)
			}

			code, err := TestConnection(context.Background(), options(server.URL))
			require.Nil(t, err)
			require.Equal(t, test.expected, code, "got %s", code)
			require.Equal(t, test.abouts, server.Count(aboutQuery))
			require.Equal(t, test.logins, server.Count(loginQuery))
		})
	}
}

func TestBadEndpoint(t *testing.T) {
	for _, endpoint := range []string{"", "not a url", "ftp://example.com", "http://"} {
		code, err := TestConnection(context.Background(), options(endpoint))
		require.Nil(t, err)
		require.Equal(t, CodeBadEndpoint, code, endpoint)
	}
}

func TestTransportError(t *testing.T) {
	server := testutil.NewScriptedServer(t)
	url := server.URL
	server.Close()

	_, err := TestConnection(context.Background(), options(url))
	require.NotNil(t, err)
}

func TestAgainstSession(t *testing.T) {
	server := testutil.NewWallabag(t, "poche", "secret")

	code, err := TestConnection(context.Background(), options(server.URL))
	require.Nil(t, err)
	require.Equal(t, CodeOK, code)
	require.Equal(t, 1, server.LoginCount())

	wrong := options(server.URL)
	wrong.Password = "nope"
	code, err = TestConnection(context.Background(), wrong)
	require.Nil(t, err)
	require.Equal(t, CodeBadCredentials, code)
}

func TestRunLogsTheClientIn(t *testing.T) {
	server := testutil.NewWallabag(t, "poche", "secret")
	client, err := core.NewClient(context.Background(), options(server.URL))
	require.Nil(t, err)

	code, err := Run(context.Background(), client)
	require.Nil(t, err)
	require.Equal(t, CodeOK, code)

	// the session the probe established is reused
	_, ok, err := client.Execute(context.Background(), AboutRequest(), core.ExecuteOptions{NoRelogin: true})
	require.Nil(t, err)
	require.True(t, ok)
	require.Equal(t, 1, server.LoginCount())
}

func TestCodeValues(t *testing.T) {
	require.Equal(t, 0, int(CodeOK))
	require.Equal(t, 1, int(CodeNotAnInstance))
	require.Equal(t, 2, int(CodeBadCredentials))
	require.Equal(t, 3, int(CodeSessionLost))
	require.Equal(t, 4, int(CodeUnexpectedContent))
	require.Equal(t, 5, int(CodeHttpAuthRequired))
	require.Equal(t, 6, int(CodeBadEndpoint))
	require.Equal(t, "session lost", CodeSessionLost.String())
}

func TestEndpointMovedToAnotherHost(t *testing.T) {
	target := testutil.NewScriptedServer(t)
	target.Script(aboutQuery, testutil.OK(testutil.HomePage))

	server := testutil.NewScriptedServer(t)
	server.Script(aboutQuery, testutil.Reply{
		Status:   http.StatusMovedPermanently,
		Location: strings.Replace(target.URL, "127.0.0.1", "localhost", 1) + "/?" + aboutQuery,
	})

	code, err := TestConnection(context.Background(), options(server.URL))
	require.Nil(t, err)
	require.Equal(t, CodeOK, code, "got %s", code)
	require.Equal(t, 1, target.Count(aboutQuery))
}

func TestRedirectLoopIsAnError(t *testing.T) {
	server := testutil.NewScriptedServer(t)
	server.Script(aboutQuery, testutil.Redirect("./?"+aboutQuery))

	_, err := TestConnection(context.Background(), options(server.URL))
	require.NotNil(t, err)
	require.Equal(t, core.MaxRedirects, server.Count(aboutQuery))
}
