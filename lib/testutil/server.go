package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

type Reply struct {
	Status int
	Body   string
	// sent as the Location header, for redirects
	Location string
}

func OK(body string) Reply {
	return Reply{Status: http.StatusOK, Body: body}
}

func Redirect(location string) Reply {
	return Reply{Status: http.StatusFound, Location: location}
}

// ScriptedServer answers each raw query ("login", "view=config", ...) with
// the replies scripted for it, in order. Once exhausted the last reply
// repeats. Unscripted queries get a 404.
type ScriptedServer struct {
	*httptest.Server

	lock    sync.Mutex
	scripts map[string][]Reply
	counts  map[string]int
	forms   map[string][]url.Values
	headers map[string][]http.Header
	order   []string
}

func NewScriptedServer(t testing.TB) *ScriptedServer {
	s := &ScriptedServer{
		scripts: map[string][]Reply{},
		counts:  map[string]int{},
		forms:   map[string][]url.Values{},
		headers: map[string][]http.Header{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *ScriptedServer) Script(query string, replies ...Reply) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.scripts[query] = replies
}

func (s *ScriptedServer) handle(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.lock.Lock()
	query := r.URL.RawQuery
	n := s.counts[query]
	s.counts[query] = n + 1
	s.order = append(s.order, query)
	s.forms[query] = append(s.forms[query], r.PostForm)
	s.headers[query] = append(s.headers[query], r.Header.Clone())
	replies := s.scripts[query]
	s.lock.Unlock()

	if len(replies) == 0 {
		http.NotFound(w, r)
		return
	}
	if n >= len(replies) {
		n = len(replies) - 1
	}
	reply := replies[n]
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if reply.Location != "" {
		w.Header().Set("Location", reply.Location)
	}
	w.WriteHeader(reply.Status)
	w.Write([]byte(reply.Body))
}

func (s *ScriptedServer) Count(query string) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.counts[query]
}

func (s *ScriptedServer) Total() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.order)
}

// Order lists every query received, oldest first.
func (s *ScriptedServer) Order() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]string(nil), s.order...)
}

func (s *ScriptedServer) Forms(query string) []url.Values {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]url.Values(nil), s.forms[query]...)
}

func (s *ScriptedServer) Headers(query string) []http.Header {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]http.Header(nil), s.headers[query]...)
}
