package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wireform/wireform/codec"
	"github.com/wireform/wireform/form"
	"github.com/wireform/wireform/multipart"
	"github.com/wireform/wireform/wireform"
)

const sampleUpload = "--abcde12345\r\n" +
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

func newExampleRouter() *wireform.Router {
	r := wireform.NewRouter()
	_ = r.Handle("GET", "/ping", PingHandler)
	_ = r.Handle("POST", "/upload", UploadHandler)
	_ = r.Handle("POST", "/echo", EchoHandler)
	_ = r.Handle("GET", "/export", ExportHandler)
	return r
}

func sampleRequest(target string) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(sampleUpload))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=abcde12345")
	return req
}

func TestUploadHandler(t *testing.T) {
	r := newExampleRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, sampleRequest("/upload"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Boundary string         `json:"boundary"`
		Fields   []fieldSummary `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Boundary != "abcde12345" {
		t.Fatalf("unexpected boundary: %q", resp.Boundary)
	}
	if len(resp.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(resp.Fields))
	}
	if resp.Fields[0].Name != "first" || resp.Fields[0].Size != len("This is some text") {
		t.Fatalf("unexpected first field: %+v", resp.Fields[0])
	}
	if resp.Fields[1].Filename != "notes.txt" || resp.Fields[1].ContentType != "text/plain" {
		t.Fatalf("unexpected second field: %+v", resp.Fields[1])
	}
}

func TestUploadHandlerRejectsBadBody(t *testing.T) {
	r := newExampleRouter()
	req := httptest.NewRequest("POST", "/upload", strings.NewReader("not multipart at all"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=abcde12345")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] == "" {
		t.Fatalf("expected error message in response")
	}
}

func TestEchoHandlerRoundTrip(t *testing.T) {
	r := newExampleRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, sampleRequest("/echo"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Equal(w.Body.Bytes(), []byte(sampleUpload)) {
		t.Fatalf("echo is not byte-exact:\n%q", w.Body.Bytes())
	}
	if got := w.Header().Get("Content-Type"); got != "multipart/form-data; boundary=abcde12345" {
		t.Fatalf("unexpected content type: %q", got)
	}
}

func TestExportHandler(t *testing.T) {
	r := newExampleRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/export", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	parts, boundary, err := multipart.ParseBody(w.Header(), w.Body.Bytes())
	if err != nil {
		t.Fatalf("parse export body: %v", err)
	}
	if boundary != exportBoundary {
		t.Fatalf("unexpected boundary: %q", boundary)
	}
	f, err := form.FromParts(parts)
	if err != nil {
		t.Fatalf("from parts: %v", err)
	}
	if got := f.Value("status"); got != "complete" {
		t.Fatalf("unexpected status field: %q", got)
	}
	fd, ok := f.Field("manifest")
	if !ok || fd.Filename != "manifest.json" {
		t.Fatalf("manifest field missing: %+v", fd)
	}
	manifest, err := codec.JSON[exportManifest]().Parse(fd.Data)
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if manifest.Service != "wireform-example" || len(manifest.Files) != 1 {
		t.Fatalf("unexpected manifest: %+v", manifest)
	}
}
