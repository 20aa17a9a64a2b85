package core

import (
	"net/http"
	"net/url"
	"strings"
)

// Param is one query parameter. The server tells actions apart by bare
// flags such as "?login" or "?feed", which is why a parameter may carry no
// value at all.
type Param struct {
	Key     string
	Value   string
	NoValue bool
}

func Flag(key string) Param {
	return Param{Key: key, NoValue: true}
}

func Value(key, value string) Param {
	return Param{Key: key, Value: value}
}

// Request describes one call against the base endpoint. Params keep their
// order in the encoded query.
type Request struct {
	Method string
	Params []Param
	Form   url.Values
}

func Get(params ...Param) Request {
	return Request{Method: http.MethodGet, Params: params}
}

func Post(form url.Values, params ...Param) Request {
	return Request{Method: http.MethodPost, Params: params, Form: form}
}

func (r Request) Query() string {
	parts := make([]string, 0, len(r.Params))
	for _, p := range r.Params {
		if p.NoValue {
			parts = append(parts, url.QueryEscape(p.Key))
			continue
		}
		parts = append(parts, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

// URL resolves the request against base, replacing any query base had.
func (r Request) URL(base *url.URL) string {
	u := *base
	u.RawQuery = r.Query()
	u.Fragment = ""
	return u.String()
}

func (r Request) String() string {
	if r.Method == "" {
		return "GET ?" + r.Query()
	}
	return r.Method + " ?" + r.Query()
}
