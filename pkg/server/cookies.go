package server

import (
	"net/http"
	"net/url"
	"time"
)

// CookieOptions are the attributes written with a Set-Cookie header.
// Zero values are omitted.
type CookieOptions struct {
	// MaxAge in seconds. Negative deletes the cookie immediately.
	MaxAge   int
	Expires  time.Time
	Path     string
	Domain   string
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// CookieJar is the read/write cookie view of a single request. Reads see
// the request's Cookie header plus any writes made during the request;
// writes are queued and emitted as Set-Cookie headers on the response.
type CookieJar struct {
	values  map[string]string
	pending []*http.Cookie
}

func parseCookies(r *http.Request) *CookieJar {
	jar := &CookieJar{values: make(map[string]string)}
	for _, c := range r.Cookies() {
		if c.Name == "" {
			continue
		}
		v, err := url.PathUnescape(c.Value)
		if err != nil {
			v = c.Value
		}
		if _, seen := jar.values[c.Name]; !seen {
			jar.values[c.Name] = v
		}
	}
	return jar
}

// Get returns the value of the named cookie.
func (j *CookieJar) Get(name string) (string, bool) {
	v, ok := j.values[name]
	return v, ok
}

// All returns a copy of every readable cookie.
func (j *CookieJar) All() map[string]string {
	out := make(map[string]string, len(j.values))
	for k, v := range j.values {
		out[k] = v
	}
	return out
}

// Set queues a cookie. The value is percent-escaped on the wire.
func (j *CookieJar) Set(name, value string, opts CookieOptions) {
	j.pending = append(j.pending, &http.Cookie{
		Name:     name,
		Value:    url.PathEscape(value),
		MaxAge:   opts.MaxAge,
		Expires:  opts.Expires,
		Path:     opts.Path,
		Domain:   opts.Domain,
		Secure:   opts.Secure,
		HttpOnly: opts.HttpOnly,
		SameSite: opts.SameSite,
	})
	if opts.MaxAge < 0 {
		delete(j.values, name)
		return
	}
	j.values[name] = value
}

// Delete expires the named cookie at path "/". Use Set with a negative
// MaxAge to delete a cookie scoped to another path or domain.
func (j *CookieJar) Delete(name string) {
	j.Set(name, "", CookieOptions{MaxAge: -1, Path: "/"})
}

// Pending returns the cookies queued for the response, in write order.
func (j *CookieJar) Pending() []*http.Cookie {
	return j.pending
}
