package explore

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"testing"
)

type part struct {
	name     string
	filename string
	ctype    string
	data     string
}

func readParts(t *testing.T, p *Payload) []part {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(p.ContentType)
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("content type %q: %v", p.ContentType, err)
	}
	r := multipart.NewReader(bytes.NewReader(p.Body), params["boundary"])
	var parts []part
	for {
		mp, err := r.NextPart()
		if err == io.EOF {
			return parts
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		data, err := io.ReadAll(mp)
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		parts = append(parts, part{
			name:     mp.FormName(),
			filename: mp.FileName(),
			ctype:    mp.Header.Get("Content-Type"),
			data:     string(data),
		})
	}
}

func TestBuildWritesImagesInOrder(t *testing.T) {
	s := namedSet("Z", "X", "Y")
	s.Move(0, 2)
	for i := range s.items {
		s.items[i].Data = []byte("bytes-" + s.items[i].Name)
		s.items[i].ContentType = "image/jpeg"
	}

	payload, err := Build(Post{Title: "Hills", Description: "Morning", Status: StatusInactive}, s.Images())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	parts := readParts(t, payload)
	if len(parts) != 6 {
		t.Fatalf("got %d parts, want 6", len(parts))
	}
	wantFields := []part{
		{name: FieldTitle, data: "Hills"},
		{name: FieldDescriptions, data: "Morning"},
		{name: FieldStatus, data: "inactive"},
	}
	for i, want := range wantFields {
		if parts[i].name != want.name || parts[i].data != want.data {
			t.Fatalf("part %d = %+v, want %s=%s", i, parts[i], want.name, want.data)
		}
	}
	for i, name := range []string{"X", "Y", "Z"} {
		got := parts[3+i]
		if got.name != FieldThumb || got.filename != name || got.data != "bytes-"+name || got.ctype != "image/jpeg" {
			t.Fatalf("image part %d = %+v, want %s", i, got, name)
		}
	}
}

func TestBuildWithoutImages(t *testing.T) {
	payload, err := Build(Post{Title: "t"}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	parts := readParts(t, payload)
	if len(parts) != 3 {
		t.Fatalf("got %d parts, want 3", len(parts))
	}
	if parts[2].data != string(StatusActive) {
		t.Fatalf("blank status should default to active, got %q", parts[2].data)
	}
}

func TestBuildFillsMissingFileMetadata(t *testing.T) {
	payload, err := Build(Post{}, []PendingImage{{ID: "1", File: File{Data: []byte("x")}}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	parts := readParts(t, payload)
	img := parts[len(parts)-1]
	if img.filename != "image-1" || img.ctype != "application/octet-stream" {
		t.Fatalf("unexpected defaults: %+v", img)
	}
}

func TestBuildRejectsUnknownStatus(t *testing.T) {
	_, err := Build(Post{Status: "draft"}, nil)
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"":          StatusActive,
		"active":    StatusActive,
		" Inactive": StatusInactive,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		if err != nil || got != want {
			t.Fatalf("ParseStatus(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseStatus("archived"); err == nil {
		t.Fatal("ParseStatus should reject archived")
	}
}
