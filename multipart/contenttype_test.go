package multipart

import (
	"bytes"
	"errors"
	"net/http"
	"testing"
)

func TestExtractBoundary(t *testing.T) {
	tests := map[string]struct {
		values  []string
		want    Boundary
		wantErr error
	}{
		"plain": {
			values: []string{"multipart/form-data; boundary=abcde12345"},
			want:   "abcde12345",
		},
		"extra parameters before boundary": {
			values: []string{"multipart/form-data; charset=utf-8; boundary=xyz"},
			want:   "xyz",
		},
		"token taken verbatim to end of value": {
			values: []string{"multipart/form-data; boundary=with spaces and; semicolons"},
			want:   "with spaces and; semicolons",
		},
		"missing header": {
			wantErr: ErrMissingContentType,
		},
		"duplicated header": {
			values:  []string{"multipart/form-data; boundary=a", "multipart/form-data; boundary=b"},
			wantErr: ErrNotMultipart,
		},
		"wrong type": {
			values:  []string{"application/json"},
			wantErr: ErrNotMultipart,
		},
		"no boundary parameter": {
			values:  []string{"multipart/form-data"},
			wantErr: ErrMissingBoundary,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			hdr := http.Header{}
			for _, v := range tt.values {
				hdr.Add("Content-Type", v)
			}
			got, err := ExtractBoundary(hdr)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected boundary %q, got %q", tt.want, got)
			}
			if v := hdr.Get("Content-Type"); v != "" {
				t.Fatalf("expected Content-Type consumed, still have %q", v)
			}
		})
	}
}

func TestExtractBoundaryKeepsHeaderOnFailure(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	if _, err := ExtractBoundary(hdr); err == nil {
		t.Fatalf("expected error")
	}
	if hdr.Get("Content-Type") != "application/json" {
		t.Fatalf("expected header untouched on failure")
	}
}

func TestSetContentType(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "text/plain")
	SetContentType(hdr, "tok")
	if got := hdr.Get("Content-Type"); got != "multipart/form-data; boundary=tok" {
		t.Fatalf("unexpected Content-Type: %q", got)
	}
}

func TestParseBody(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "multipart/form-data; boundary=abcde12345")
	parts, boundary, err := ParseBody(hdr, []byte(scenarioBody))
	if err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if boundary != scenarioBoundary {
		t.Fatalf("expected boundary %q, got %q", scenarioBoundary, boundary)
	}
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if hdr.Get("Content-Type") != "" {
		t.Fatalf("expected Content-Type consumed")
	}
}

func TestParseBodyMissingBody(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "multipart/form-data; boundary=T")
	if _, _, err := ParseBody(hdr, nil); !errors.Is(err, ErrMissingBody) {
		t.Fatalf("expected missing body error, got %v", err)
	}
	if _, _, err := ParseBody(hdr, []byte{}); !errors.Is(err, ErrMissingBody) {
		t.Fatalf("expected missing body error, got %v", err)
	}
}

func TestPrintBody(t *testing.T) {
	hdr := http.Header{}
	parts, err := Parse([]byte(scenarioBody), scenarioBoundary)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	body := PrintBody(hdr, parts, scenarioBoundary)
	if !bytes.Equal(body, []byte(scenarioBody)) {
		t.Fatalf("print body diverged")
	}
	if got := hdr.Get("Content-Type"); got != "multipart/form-data; boundary=abcde12345" {
		t.Fatalf("unexpected Content-Type: %q", got)
	}
}

func TestParsePrintBoundariesDecoupled(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "multipart/form-data; boundary=abcde12345")
	parts, _, err := ParseBody(hdr, []byte(scenarioBody))
	if err != nil {
		t.Fatalf("parse body: %v", err)
	}
	out := PrintBody(hdr, parts, "fresh-token")
	reparsed, _, err := ParseBody(hdr, out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(reparsed) != len(parts) {
		t.Fatalf("expected %d parts, got %d", len(parts), len(reparsed))
	}
}
