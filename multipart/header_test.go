package multipart

import (
	"errors"
	"testing"
)

func TestHeaderBlockLookupFoldsCase(t *testing.T) {
	var h HeaderBlock
	h.Add("Content-Type", "text/plain")
	if got := h.Get("content-type"); got != "text/plain" {
		t.Fatalf("expected folded lookup to hit, got %q", got)
	}
	if !h.Has("CONTENT-TYPE") {
		t.Fatalf("expected Has to fold case")
	}
	if _, ok := h.Lookup("Content-Length"); ok {
		t.Fatalf("expected miss for absent name")
	}
	if got := h.Fields()[0].Name; got != "Content-Type" {
		t.Fatalf("expected stored casing preserved, got %q", got)
	}
}

func TestHeaderBlockRepeatedNames(t *testing.T) {
	var h HeaderBlock
	h.Add("X-Tag", "one")
	h.Add("x-tag", "two")
	h.Add("X-TAG", "three")
	if got := h.Get("x-tag"); got != "one" {
		t.Fatalf("expected first value, got %q", got)
	}
	vals := h.Values("X-Tag")
	if len(vals) != 3 || vals[0] != "one" || vals[1] != "two" || vals[2] != "three" {
		t.Fatalf("unexpected values: %v", vals)
	}
	if h.Len() != 3 {
		t.Fatalf("expected 3 fields, got %d", h.Len())
	}
}

func TestHeaderBlockEqual(t *testing.T) {
	var a, b HeaderBlock
	a.Add("A", "1")
	b.Add("A", "1")
	if !a.Equal(b) {
		t.Fatalf("expected equal blocks")
	}
	b.Add("B", "2")
	if a.Equal(b) {
		t.Fatalf("expected unequal lengths to differ")
	}
	var c HeaderBlock
	c.Add("a", "1")
	if a.Equal(c) {
		t.Fatalf("expected casing to participate in equality")
	}
}

func TestParseHeaderLine(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    HeaderField
		wantPos int
		wantErr error
	}{
		"simple": {
			in:      "A: 1\r\nrest",
			want:    HeaderField{"A", "1"},
			wantPos: 6,
		},
		"value keeps inner colons": {
			in:      "Content-Disposition: form-data; name=\"x\"\r\n",
			want:    HeaderField{"Content-Disposition", `form-data; name="x"`},
			wantPos: 42,
		},
		"blank line": {
			in:      "\r\nA: 1\r\n",
			wantErr: errNoHeaderLine,
		},
		"missing separator": {
			in:      "NoSeparator\r\n",
			wantErr: ErrHeaderSeparator,
		},
		"missing terminator": {
			in:      "A: 1",
			wantErr: ErrHeaderTerminator,
		},
		"colon without space spans lines": {
			in:      "A:1\r\nB: 2\r\n",
			want:    HeaderField{"A:1\r\nB", "2"},
			wantPos: 11,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f, pos, err := parseHeaderLine([]byte(tt.in), 0)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if f != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, f)
			}
			if pos != tt.wantPos {
				t.Fatalf("expected pos %d, got %d", tt.wantPos, pos)
			}
		})
	}
}

func TestParseHeaderBlockConsumesBlankLine(t *testing.T) {
	h, pos, err := parseHeaderBlock([]byte("A: 1\r\n\r\npayload"), 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if h.Len() != 1 {
		t.Fatalf("expected 1 field, got %d", h.Len())
	}
	if want := len("A: 1\r\n\r\n"); pos != want {
		t.Fatalf("expected pos %d, got %d", want, pos)
	}
}
