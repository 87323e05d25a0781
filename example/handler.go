package main

import (
	"net/http"

	"github.com/wireform/wireform/codec"
	"github.com/wireform/wireform/form"
	"github.com/wireform/wireform/wireform"
)

func PingHandler(c *wireform.Context) {
	_ = c.Text(http.StatusOK, "pong")
}

type fieldSummary struct {
	Name        string `json:"name"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int    `json:"size"`
}

// UploadHandler reports what a multipart upload contained without storing it.
func UploadHandler(c *wireform.Context) {
	f, err := c.Form()
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	summaries := make([]fieldSummary, 0, f.Len())
	for _, fd := range f.Fields() {
		ct, _ := fd.Header.Lookup("Content-Type")
		summaries = append(summaries, fieldSummary{
			Name:        fd.Name,
			Filename:    fd.Filename,
			ContentType: ct,
			Size:        len(fd.Data),
		})
	}
	_ = c.JSON(http.StatusOK, map[string]any{
		"boundary": string(c.Boundary()),
		"fields":   summaries,
	})
}

// EchoHandler reframes the request body under its own boundary. A well-formed
// body comes back byte for byte.
func EchoHandler(c *wireform.Context) {
	parts, err := c.Parts()
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	_ = c.Multipart(http.StatusOK, parts, c.Boundary())
}

const exportBoundary = "wireform-export-1a2b3c"

type exportManifest struct {
	Service string   `json:"service"`
	Files   []string `json:"files"`
}

// ExportHandler builds a fresh form and serves it as multipart/form-data.
func ExportHandler(c *wireform.Context) {
	manifest, err := codec.JSON[exportManifest]().Print(exportManifest{
		Service: "wireform-example",
		Files:   []string{"report.txt"},
	})
	if err != nil {
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	f := form.New()
	f.AddValue("status", "complete")
	f.AddFile("manifest", "manifest.json", "application/json", manifest)
	f.AddFile("report", "report.txt", "text/plain", []byte("nothing to report\n"))
	_ = c.FormData(http.StatusOK, f, exportBoundary)
}
