package testutil

import "fmt"

const LoginPage = `<!DOCTYPE html>
<html>
<head><title>poche</title></head>
<body class="login">
    <div id="main">
        <form method="post" action="?login" name="loginform">
            <fieldset class="w500p center">
                <h2 class="mbs txtcenter">login to your poche</h2>
                <input class="col" type="text" id="login" name="login" placeholder="Username" />
                <input class="col" type="password" id="password" name="password" placeholder="Password" />
                <button class="bouton" type="submit">Login</button>
            </fieldset>
        </form>
    </div>
</body>
</html>`

const FailedLoginPage = `<!DOCTYPE html>
<html>
<head><title>poche</title></head>
<body class="login">
    <div id="main">
        <div class='messages error'><p>Login failed: wrong username or password</p></div>
        <form method="post" action="?login" name="loginform">
            <input class="col" type="text" id="login" name="login" />
            <input class="col" type="password" id="password" name="password" />
        </form>
    </div>
</body>
</html>`

const HomePage = `<!DOCTYPE html>
<html>
<head><title>poche</title></head>
<body>
    <ul id="links" class="links">
        <li><a href="./" class="current">unread</a></li>
        <li><a href="./?view=config">config</a></li>
        <li><a class="icon icon-power" href="./?logout" title="logout">logout</a></li>
    </ul>
    <div id="content">home</div>
</body>
</html>`

// UnrelatedPage is what a wrong endpoint tends to serve.
const UnrelatedPage = `<html><body><h1>It works!</h1></body></html>`

// ConfigPage renders the configuration view, with the feed links only when
// token is not empty.
func ConfigPage(userId int, token string) string {
	feeds := `<p>You don't have any feed token yet. <a href="?feed&amp;action=generate">Generate one</a></p>`
	if token != "" {
		feeds = fmt.Sprintf(`<p>Your feeds:
            <a href="?feed&amp;type=home&amp;user_id=%d&amp;token=%s" target="_blank">unread</a>,
            <a href="?feed&amp;type=fav&amp;user_id=%d&amp;token=%s" target="_blank">favorites</a>,
            <a href="?feed&amp;type=archive&amp;user_id=%d&amp;token=%s" target="_blank">archive</a></p>`,
			userId, token, userId, token, userId, token,
		)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>poche - config</title></head>
<body>
    <ul id="links" class="links">
        <li><a href="./?view=config" class="current">config</a></li>
        <li><a class="icon icon-power" href="./?logout" title="logout">logout</a></li>
    </ul>
    <div id="content">
        <h2>Feeds</h2>
        %s
    </div>
</body>
</html>`, feeds)
}

// Feed renders a minimal RSS document with one item per title.
func Feed(title string, items ...string) string {
	rendered := ""
	for i, item := range items {
		rendered += fmt.Sprintf(`
        <item>
            <title>%s</title>
            <link>https://example.com/articles/%d</link>
            <guid>https://example.com/articles/%d</guid>
            <pubDate>Mon, 0%d Jan 2024 10:00:00 +0000</pubDate>
        </item>`, item, i+1, i+1, i+1)
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<rss version="2.0">
    <channel>
        <title>%s</title>
        <link>https://example.com/</link>
        <description>poche feed</description>%s
    </channel>
</rss>`, title, rendered)
}
