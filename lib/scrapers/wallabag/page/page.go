// Package page decides what kind of page the server rendered. The server has
// no API, so a response body is the only signal of whether the session is
// still authenticated.
package page

import (
	"bytes"

	"pocheclient/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type Kind int

const (
	Indeterminate Kind = iota
	LoginPage
	RegularPage
)

func (k Kind) String() string {
	switch k {
	case LoginPage:
		return "login"
	case RegularPage:
		return "regular"
	default:
		return "indeterminate"
	}
}

// Classifier recognizes the login form and the authenticated layout.
// Implementations must be pure: the same body always yields the same answer.
type Classifier interface {
	IsLoginPage(body []byte) bool
	IsRegularPage(body []byte) bool
}

// Markers classifies pages by looking for exact snippets of the server's
// templates. The snippets are tied to the server version that renders them.
type Markers struct {
	Login  string
	Logout string
}

const (
	LoginFormMarker  = `<form method="post" action="?login" name="loginform">`
	LogoutLinkMarker = `href="./?logout"`
)

var Default = Markers{
	Login:  LoginFormMarker,
	Logout: LogoutLinkMarker,
}

func (m Markers) IsLoginPage(body []byte) bool {
	if len(body) == 0 || m.Login == "" {
		return false
	}
	return bytes.Contains(body, []byte(m.Login))
}

func (m Markers) IsRegularPage(body []byte) bool {
	if len(body) == 0 || m.Logout == "" {
		return false
	}
	return bytes.Contains(body, []byte(m.Logout))
}

// Classify folds both checks into one Kind. A body carrying both markers is
// treated as a login page since that is what triggers re-authentication.
func Classify(c Classifier, body []byte) Kind {
	if c.IsLoginPage(body) {
		return LoginPage
	}
	if c.IsRegularPage(body) {
		return RegularPage
	}
	return Indeterminate
}

// LoginMessages returns the error notices the server renders above the
// login form (eg. a rejected password). It returns nil when the body cannot
// be parsed or has no notices.
func LoginMessages(body []byte) []string {
	if len(body) == 0 {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil
	}

	var out []string
	doc.Find("div.messages.error").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			text := htmlutil.GetCleanText(n)
			if text == "" {
				continue
			}
			out = append(out, text)
		}
	})
	return out
}
