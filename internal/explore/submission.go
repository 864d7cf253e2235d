package explore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Multipart field names expected by the explore/add endpoint.
const (
	FieldTitle        = "explore_title"
	FieldDescriptions = "explore_descriptions"
	FieldStatus       = "explore_status"
	FieldThumb        = "explore_thumb"
)

// Status is the publication state of an Explore post.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ErrInvalidStatus is returned for a status other than active or inactive.
var ErrInvalidStatus = errors.New("explore: status must be active or inactive")

// ParseStatus normalises a form value. Blank means active, the form default.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case "", StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
}

// Post holds the text fields of the compose form.
type Post struct {
	Title       string `json:"explore_title"`
	Description string `json:"explore_descriptions"`
	Status      Status `json:"explore_status"`
}

// Payload is an encoded multipart/form-data body.
type Payload struct {
	ContentType string
	Body        []byte
}

// Reader returns a fresh reader over the body.
func (p *Payload) Reader() io.Reader {
	return bytes.NewReader(p.Body)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Build encodes post and images as multipart/form-data. Each scalar field is
// written once; every image is written under FieldThumb in the order given,
// so the backend receives the list exactly as arranged.
func Build(post Post, images []PendingImage) (*Payload, error) {
	status, err := ParseStatus(string(post.Status))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{FieldTitle, post.Title},
		{FieldDescriptions, post.Description},
		{FieldStatus, string(status)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	for i, img := range images {
		part, err := w.CreatePart(imageHeader(i, img))
		if err != nil {
			return nil, fmt.Errorf("create image part %d: %w", i, err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, fmt.Errorf("write image part %d: %w", i, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}
	return &Payload{ContentType: w.FormDataContentType(), Body: buf.Bytes()}, nil
}

func imageHeader(index int, img PendingImage) textproto.MIMEHeader {
	name := strings.TrimSpace(img.Name)
	if name == "" {
		name = fmt.Sprintf("image-%d", index+1)
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		FieldThumb, quoteEscaper.Replace(name)))
	h.Set("Content-Type", contentType)
	return h
}
