package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

const sessionCookie = "poche"

// Wallabag emulates the session handling of the real server closely enough
// for end to end tests: a cookie session established by "?login", pages
// that fall back to the login form without it, and a feed token that only
// exists after "?feed&action=generate".
type Wallabag struct {
	*httptest.Server

	Username string
	Password string
	UserId   int

	lock      sync.Mutex
	sessions  map[string]bool
	token     string
	articles  map[int]*Article
	added     []string
	logins    int
	feedItems []string
}

type Article struct {
	Archived bool
	Favorite bool
}

func NewWallabag(t testing.TB, username, password string) *Wallabag {
	w := &Wallabag{
		Username: username,
		Password: password,
		UserId:   1,
		sessions: map[string]bool{},
		articles: map[int]*Article{},
	}
	w.Server = httptest.NewServer(http.HandlerFunc(w.handle))
	t.Cleanup(w.Close)
	return w
}

// Token is the current feed token, empty until one was generated.
func (w *Wallabag) Token() string {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.token
}

func (w *Wallabag) SetToken(token string) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.token = token
}

// AddArticle makes an article with id available to the actions.
func (w *Wallabag) AddArticle(id int) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.articles[id] = &Article{}
}

// Article returns a copy of the article state.
func (w *Wallabag) Article(id int) (Article, bool) {
	w.lock.Lock()
	defer w.lock.Unlock()
	a, ok := w.articles[id]
	if !ok {
		return Article{}, false
	}
	return *a, true
}

func (w *Wallabag) AddedLinks() []string {
	w.lock.Lock()
	defer w.lock.Unlock()
	return append([]string(nil), w.added...)
}

func (w *Wallabag) SetFeedItems(titles ...string) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.feedItems = titles
}

func (w *Wallabag) LoginCount() int {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.logins
}

// ExpireSessions forgets every session, like a server side timeout.
func (w *Wallabag) ExpireSessions() {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.sessions = map[string]bool{}
}

func newSessionId() string {
	buf := make([]byte, 16)
	_, err := rand.Read(buf)
	if err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

func (w *Wallabag) authenticated(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return false
	}
	return w.sessions[cookie.Value]
}

func write(rw http.ResponseWriter, body string) {
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.Write([]byte(body))
}

// home sends the browser back to the index, which is how the server ends
// logins and actions.
func home(rw http.ResponseWriter, r *http.Request) {
	http.Redirect(rw, r, "./", http.StatusFound)
}

func (w *Wallabag) handle(rw http.ResponseWriter, r *http.Request) {
	w.lock.Lock()
	defer w.lock.Unlock()

	query := r.URL.Query()
	_, isLogin := query["login"]
	_, isFeed := query["feed"]

	switch {
	case isLogin && r.Method == http.MethodPost:
		w.logins++
		err := r.ParseForm()
		if err != nil || r.PostForm.Get("login") != w.Username || r.PostForm.Get("password") != w.Password {
			write(rw, FailedLoginPage)
			return
		}
		id := newSessionId()
		w.sessions[id] = true
		http.SetCookie(rw, &http.Cookie{Name: sessionCookie, Value: id, Path: "/"})
		home(rw, r)
		return
	case isFeed && query.Get("type") != "":
		if w.token == "" || query.Get("token") != w.token || query.Get("user_id") != strconv.Itoa(w.UserId) {
			http.Error(rw, "Uh, there is a problem with the cron.", http.StatusForbidden)
			return
		}
		rw.Header().Set("Content-Type", "application/rss+xml")
		rw.Write([]byte(Feed("poche - "+query.Get("type")+" feed", w.feedItems...)))
		return
	}

	if !w.authenticated(r) {
		write(rw, LoginPage)
		return
	}

	switch {
	case isFeed && query.Get("action") == "generate":
		w.token = newSessionId()[:16]
		home(rw, r)
	case query.Get("view") == "config":
		write(rw, ConfigPage(w.UserId, w.token))
	case query.Has("plainurl"):
		w.added = append(w.added, query.Get("plainurl"))
		home(rw, r)
	case query.Get("action") != "":
		id, err := strconv.Atoi(query.Get("id"))
		article, ok := w.articles[id]
		if err != nil || !ok {
			home(rw, r)
			return
		}
		switch query.Get("action") {
		case "toggle_archive":
			article.Archived = !article.Archived
		case "toggle_fav":
			article.Favorite = !article.Favorite
		case "delete":
			delete(w.articles, id)
		}
		home(rw, r)
	default:
		write(rw, HomePage)
	}
}
