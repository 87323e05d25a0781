package wireform

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/wireform/wireform/form"
	"github.com/wireform/wireform/multipart"
)

// Handler serves one routed request.
type Handler func(*Context)

type Context struct {
	Writer  http.ResponseWriter
	Request *http.Request
	params  []paramKV
	pbuf    [8]paramKV
	sw      statusWriter
	store   map[string]any

	Route string

	maxBody  int
	body     []byte
	bodyRead bool
	parts    []multipart.Part
	boundary multipart.Boundary
	form     *form.Form
}

type paramKV struct{ key, val string }

func (c *Context) Param(k string) string {
	for i := len(c.params) - 1; i >= 0; i-- {
		if c.params[i].key == k {
			return c.params[i].val
		}
	}
	return ""
}
func (c *Context) Set(k string, v any) {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[k] = v
}

func (c *Context) Get(k string) (any, bool) { v, ok := c.store[k]; return v, ok }

func (c *Context) Header(k, v string) *Context { c.Writer.Header().Set(k, v); return c }

// Status reports the response status written so far, or 200 before any write.
func (c *Context) Status() int { return c.sw.Status() }

// BytesWritten reports the response body bytes written so far.
func (c *Context) BytesWritten() int { return c.sw.BytesWritten() }

func (c *Context) Text(code int, s string) error {
	if c.Writer.Header().Get("Content-Type") == "" {
		c.Header("Content-Type", "text/plain; charset=utf-8")
	}
	c.Writer.WriteHeader(code)
	_, err := io.WriteString(c.Writer, s)
	return err
}

func (c *Context) JSON(code int, v any) error {
	if c.Writer.Header().Get("Content-Type") == "" {
		c.Header("Content-Type", "application/json; charset=utf-8")
	}
	c.Writer.WriteHeader(code)
	enc := json.NewEncoder(c.Writer)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (c *Context) Bind(v any) error { return json.NewDecoder(c.Request.Body).Decode(v) }
func (c *Context) Redirect(code int, url string) error {
	http.Redirect(c.Writer, c.Request, url, code)
	return nil
}

// BodyBytes reads the whole request body once and caches it. Reads beyond the
// router's body limit fail rather than truncate.
func (c *Context) BodyBytes() ([]byte, error) {
	if c.bodyRead {
		return c.body, nil
	}
	if c.Request == nil || c.Request.Body == nil {
		c.bodyRead = true
		return nil, nil
	}
	limit := c.maxBody
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if len(data) > limit {
		return nil, errBodyTooLarge
	}
	c.body = data
	c.bodyRead = true
	return data, nil
}

// Parts frames the request body as multipart/form-data, caching the result.
// The request's Content-Type header is consumed by a successful parse.
func (c *Context) Parts() ([]multipart.Part, error) {
	if c.parts != nil {
		return c.parts, nil
	}
	body, err := c.BodyBytes()
	if err != nil {
		return nil, err
	}
	parts, boundary, err := multipart.ParseBody(c.Request.Header, body)
	if err != nil {
		return nil, err
	}
	c.parts, c.boundary = parts, boundary
	return parts, nil
}

// Boundary returns the boundary the request body was parsed with, or "" when
// Parts has not run.
func (c *Context) Boundary() multipart.Boundary { return c.boundary }

// Form interprets the request's parts as named form fields, caching the
// result.
func (c *Context) Form() (*form.Form, error) {
	if c.form != nil {
		return c.form, nil
	}
	parts, err := c.Parts()
	if err != nil {
		return nil, err
	}
	f, err := form.FromParts(parts)
	if err != nil {
		return nil, err
	}
	c.form = f
	return f, nil
}

// Multipart writes parts as a multipart/form-data response under boundary,
// stamping the Content-Type header to match.
func (c *Context) Multipart(code int, parts []multipart.Part, boundary multipart.Boundary) error {
	body := multipart.PrintBody(c.Writer.Header(), parts, boundary)
	c.Writer.WriteHeader(code)
	_, err := c.Writer.Write(body)
	return err
}

// FormData writes the form's fields as a multipart/form-data response.
func (c *Context) FormData(code int, f *form.Form, boundary multipart.Boundary) error {
	return c.Multipart(code, f.Parts(), boundary)
}
