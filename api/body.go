package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// Request describes one call against the backend. Body and Multipart are
// mutually exclusive: Body is JSON-encoded, Multipart is sent as-is with the
// encoder's boundary Content-Type (never a manual one).
type Request struct {
	Method    string
	Path      string
	Query     url.Values
	Header    http.Header
	Body      interface{}
	Multipart *Multipart
}

// Multipart accumulates form fields and file parts for upload endpoints
// (avatars, assignment resources, submissions). It is encoded once before
// the first attempt so retries can retransmit the same bytes.
type Multipart struct {
	fields []formField
	files  []filePart
	err    error
}

type formField struct {
	name  string
	value string
}

type filePart struct {
	field    string
	filename string
	content  []byte
}

func NewMultipart() *Multipart { return &Multipart{} }

func (m *Multipart) Field(name, value string) *Multipart {
	m.fields = append(m.fields, formField{name: name, value: value})
	return m
}

// File buffers the reader's content. The reader is consumed immediately.
func (m *Multipart) File(field, filename string, r io.Reader) *Multipart {
	content, err := io.ReadAll(r)
	if err != nil && m.err == nil {
		m.err = fmt.Errorf("multipart %s: %w", field, err)
	}
	m.files = append(m.files, filePart{field: field, filename: filename, content: content})
	return m
}

func (m *Multipart) encode() ([]byte, string, error) {
	if m.err != nil {
		return nil, "", m.err
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range m.fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.files {
		part, err := writer.CreateFormFile(f.field, f.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.content); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

// BodyKind tags the decoded response payload.
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyJSON
	BodyText
	BodyBinary
)

// Body is the response payload, tagged by the Content-Type it arrived with.
type Body struct {
	kind BodyKind
	raw  []byte
}

func newBody(contentType string, data []byte) Body {
	if len(data) == 0 {
		return Body{kind: BodyNone}
	}
	mediaType := contentType
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return Body{kind: BodyJSON, raw: data}
	case strings.HasPrefix(mediaType, "text/"):
		return Body{kind: BodyText, raw: data}
	default:
		return Body{kind: BodyBinary, raw: data}
	}
}

func (b Body) Kind() BodyKind { return b.kind }

// Decode unmarshals a JSON body into out.
func (b Body) Decode(out interface{}) error {
	if b.kind != BodyJSON {
		return fmt.Errorf("api: response body is not JSON")
	}
	return json.Unmarshal(b.raw, out)
}

func (b Body) JSON() (json.RawMessage, bool) {
	if b.kind != BodyJSON {
		return nil, false
	}
	return json.RawMessage(b.raw), true
}

func (b Body) Text() (string, bool) {
	if b.kind != BodyText {
		return "", false
	}
	return string(b.raw), true
}

func (b Body) Binary() ([]byte, bool) {
	if b.kind != BodyBinary {
		return nil, false
	}
	return b.raw, true
}

// Response is a normalized successful (2xx) response.
type Response struct {
	Status int
	Header http.Header
	Body   Body
}
