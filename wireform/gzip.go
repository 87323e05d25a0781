package wireform

import (
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/valyala/bytebufferpool"
)

// Responses smaller than this are sent uncompressed; the gzip framing would
// cost more than it saves.
const gzipMinSize = 1 << 10

var gzipWriterPool = sync.Pool{
	New: func() any {
		w, _ := gzip.NewWriterLevel(nil, gzip.DefaultCompression)
		return w
	},
}

var gzipBufPool bytebufferpool.Pool

// Gzip compresses responses for clients that accept it. Small responses and
// responses that already carry a Content-Encoding pass through untouched.
func Gzip() Middleware {
	return func(next Handler) Handler {
		return func(c *Context) {
			if !acceptsGzip(c.Request.Header) {
				next(c)
				return
			}
			dst := c.Writer
			gw := &gzipBuffer{dst: dst, body: gzipBufPool.Get()}
			c.Writer = gw
			next(c)
			c.Writer = dst
			gw.flush()
			gzipBufPool.Put(gw.body)
		}
	}
}

func acceptsGzip(hdr http.Header) bool {
	for _, v := range hdr.Values("Accept-Encoding") {
		for _, p := range strings.Split(v, ",") {
			p = strings.TrimSpace(p)
			if i := strings.IndexByte(p, ';'); i >= 0 {
				p = strings.TrimSpace(p[:i])
			}
			if strings.EqualFold(p, "gzip") {
				return true
			}
		}
	}
	return false
}

// gzipBuffer defers the body so the compress-or-not decision can look at the
// complete response.
type gzipBuffer struct {
	dst    http.ResponseWriter
	body   *bytebufferpool.ByteBuffer
	status int
	wrote  bool
}

func (g *gzipBuffer) Header() http.Header { return g.dst.Header() }

func (g *gzipBuffer) WriteHeader(code int) {
	if g.wrote {
		return
	}
	g.status = code
	g.wrote = true
}

func (g *gzipBuffer) Write(p []byte) (int, error) {
	if !g.wrote {
		g.WriteHeader(http.StatusOK)
	}
	return g.body.Write(p)
}

func (g *gzipBuffer) flush() {
	status := g.status
	if !g.wrote {
		status = http.StatusOK
	}
	hdr := g.dst.Header()
	body := g.body.Bytes()
	if len(body) < gzipMinSize || hdr.Get("Content-Encoding") != "" {
		g.dst.WriteHeader(status)
		_, _ = g.dst.Write(body)
		return
	}
	hdr.Set("Content-Encoding", "gzip")
	hdr.Add("Vary", "Accept-Encoding")
	hdr.Del("Content-Length")
	g.dst.WriteHeader(status)
	zw := gzipWriterPool.Get().(*gzip.Writer)
	zw.Reset(g.dst)
	_, _ = zw.Write(body)
	_ = zw.Close()
	gzipWriterPool.Put(zw)
}
