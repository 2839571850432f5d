package plugins

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Text escapes data for safe inclusion in HTML.
type Text struct{}

func (Text) Ext() string { return "txt" }

func (Text) Render(data *string) (*string, error) {
	if data == nil {
		return nil, nil
	}
	out := html.EscapeString(*data)
	return &out, nil
}

// HTML passes data through unchanged.
type HTML struct{}

func (HTML) Ext() string { return "html" }

func (HTML) Render(data *string) (*string, error) {
	if data == nil {
		return nil, nil
	}
	out := *data
	return &out, nil
}

// Markdown renders GitHub flavored markdown. Raw HTML in the source is omitted.
type Markdown struct {
	md goldmark.Markdown
}

func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (*Markdown) Ext() string { return "md" }

func (m *Markdown) Render(data *string) (*string, error) {
	if data == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(*data), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	out := buf.String()
	return &out, nil
}

// ImageData is the stored form of an img node.
type ImageData struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Alt    string `json:"alt,omitempty"`
	ID     string `json:"id,omitempty"`
	Class  string `json:"class,omitempty"`
}

// Image renders ImageData JSON to an <img> element. Data that is not a JSON
// object is treated as a bare URL.
type Image struct{}

func (Image) Ext() string { return "img" }

func (Image) Render(data *string) (*string, error) {
	if data == nil {
		return nil, nil
	}

	var img ImageData
	if err := json.Unmarshal([]byte(*data), &img); err != nil {
		img = ImageData{URL: *data}
	}

	out := ""
	if img.URL != "" {
		out = imgTag(img)
	}
	return &out, nil
}

func imgTag(img ImageData) string {
	var b bytes.Buffer
	b.WriteString(`<img src="`)
	b.WriteString(html.EscapeString(img.URL))
	b.WriteByte('"')
	if img.Width > 0 {
		fmt.Fprintf(&b, ` width="%d"`, img.Width)
	}
	if img.Height > 0 {
		fmt.Fprintf(&b, ` height="%d"`, img.Height)
	}
	attr(&b, "alt", img.Alt)
	attr(&b, "id", img.ID)
	attr(&b, "class", img.Class)
	b.WriteString(" />")
	return b.String()
}

func attr(b *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, ` %s="%s"`, name, html.EscapeString(value))
}
