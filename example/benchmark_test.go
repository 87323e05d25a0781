package main

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wireform/wireform/wireform"
)

func BenchmarkRoute_HelloParam(b *testing.B) {
	r := wireform.NewRouter()
	// 注意：基准时不要 Use(Logger/Timeout) 之类的中间件，否则会拖慢很多
	_ = r.Handle("GET", "/hello/:id", func(c *wireform.Context) {
		_ = c.Text(200, c.Param("id"))
	})

	req := httptest.NewRequest("GET", "/hello/12345", nil)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != 200 {
			b.Fatalf("unexpected code: %d", w.Code)
		}
	}
}

func BenchmarkRoute_Upload(b *testing.B) {
	r := wireform.NewRouter()
	_ = r.Handle("POST", "/upload", UploadHandler)

	body := "--abcde12345\r\n" +
		"Content-Disposition: form-data; name=\"first\"\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"This is some text" +
		"\r\n--abcde12345\r\n" +
		"Content-Disposition: form-data; name=\"second\"; filename=\"notes.txt\"\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"This is some more text" +
		"\r\n--abcde12345--\r\n"

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		// 每次重建请求：解析会消耗 Content-Type
		req := httptest.NewRequest("POST", "/upload", strings.NewReader(body))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=abcde12345")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != 200 {
			b.Fatalf("unexpected code: %d", w.Code)
		}
	}
}
