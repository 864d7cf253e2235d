package aguli

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Upload is a file sent in a multipart request.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// multipartForm accumulates fields and files and remembers the first error.
type multipartForm struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newMultipartForm() *multipartForm {
	f := &multipartForm{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *multipartForm) field(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.w.WriteField(name, value)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (f *multipartForm) file(name string, up *Upload) {
	if f.err != nil || up == nil {
		return
	}
	h := make(textproto.MIMEHeader)
	filename := up.Name
	if filename == "" {
		filename = name
	}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(name), quoteEscaper.Replace(filename)))
	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := f.w.CreatePart(h)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = part.Write(up.Data)
}

// finish closes the writer and returns the content type and body.
func (f *multipartForm) finish() (string, *bytes.Buffer, error) {
	if f.err != nil {
		return "", nil, fmt.Errorf("aguli: encode form: %w", f.err)
	}
	if err := f.w.Close(); err != nil {
		return "", nil, fmt.Errorf("aguli: encode form: %w", err)
	}
	return f.w.FormDataContentType(), &f.buf, nil
}
