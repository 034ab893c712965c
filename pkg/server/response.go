package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Content types used by the response helpers.
const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeJSON = "application/json"
)

// Response is the value every handler and middleware produces. The body is
// fully buffered.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// NewResponse returns a response with the given status, content type and body.
func NewResponse(status int, contentType string, body []byte) *Response {
	h := make(http.Header)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &Response{Status: status, Header: h, Body: body}
}

// HTML returns a text/html response.
func HTML(status int, body string) *Response {
	return NewResponse(status, ContentTypeHTML, []byte(body))
}

// Text returns a text/plain response.
func Text(status int, body string) *Response {
	return NewResponse(status, ContentTypeText, []byte(body))
}

// JSON encodes v and returns an application/json response.
func JSON(status int, v any) (*Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json response: %w", err)
	}
	return NewResponse(status, ContentTypeJSON, data), nil
}

// Redirect returns a redirect to url. Status must be 301, 302, 307 or 308;
// anything else becomes 302.
func Redirect(url string, status int) *Response {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
	default:
		status = http.StatusFound
	}
	r := NewResponse(status, "", nil)
	r.Header.Set("Location", url)
	return r
}

// NoContent returns an empty 204 response.
func NoContent() *Response {
	return NewResponse(http.StatusNoContent, "", nil)
}

// NotFound returns the fixed 404 response.
func NotFound() *Response {
	return Text(http.StatusNotFound, "Not Found")
}

// InternalError returns the fixed 500 response.
func InternalError() *Response {
	return Text(http.StatusInternalServerError, "Internal Server Error")
}

// SetCookies appends Set-Cookie headers for cookies.
func (r *Response) SetCookies(cookies []*http.Cookie) {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	for _, c := range cookies {
		if v := c.String(); v != "" {
			r.Header.Add("Set-Cookie", v)
		}
	}
}

// Write sends the response to w.
func (r *Response) Write(w http.ResponseWriter) error {
	h := w.Header()
	for k, vs := range r.Header {
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	if len(r.Body) > 0 && h.Get("Content-Length") == "" {
		h.Set("Content-Length", strconv.Itoa(len(r.Body)))
	}
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(r.Body) == 0 {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}

// ErrInvalidJSON is returned by BindJSON for malformed request bodies.
var ErrInvalidJSON = errors.New("invalid JSON body")

// BindJSON decodes the request body into v. It reports ErrInvalidJSON when
// the content type is not JSON or the body does not decode.
func BindJSON(c *Ctx, v any) error {
	if !IsJSON(c.Header("Content-Type")) {
		return ErrInvalidJSON
	}
	body := c.request.Body
	if body == nil {
		return ErrInvalidJSON
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

// IsJSON reports whether contentType names a JSON media type.
func IsJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}
