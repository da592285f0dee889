// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bluespider

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Document is a parsed view of a response body, built once per exchange and
// shared by every parser.
type Document struct {
	text string
	html *goquery.Document
}

// NewDocument decodes the response body and, for HTML responses, parses the
// markup tree. When detectCharset is set and the Content-Type carries no
// charset, non-UTF-8 bodies are sniffed.
func NewDocument(ex *Exchange, detectCharset bool) *Document {
	mustExchange(ex)
	body := decodeBody(ex, detectCharset)
	d := &Document{text: string(body)}
	if ex.IsHTML() {
		if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
			d.html = doc
		}
	}
	return d
}

// NewHTMLDocument parses markup directly, mostly useful in tests
func NewHTMLDocument(markup string) *Document {
	d := &Document{text: markup}
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(markup))); err == nil {
		d.html = doc
	}
	return d
}

// Text returns the decoded body
func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	return d.text
}

// HTML returns the parsed tree, or nil when the body is not HTML
func (d *Document) HTML() *goquery.Document {
	if d == nil {
		return nil
	}
	return d.html
}

// Root returns the root node of the parsed tree, or nil
func (d *Document) Root() *html.Node {
	if d == nil || d.html == nil || len(d.html.Nodes) == 0 {
		return nil
	}
	return d.html.Nodes[0]
}

func decodeBody(ex *Exchange, detectCharset bool) []byte {
	body := ex.Body()
	label := ex.charsetLabel()
	if label == "" {
		if !detectCharset || utf8.Valid(body) {
			return body
		}
		r, err := chardet.NewTextDetector().DetectBest(body)
		if err != nil {
			return body
		}
		label = r.Charset
	}
	switch label {
	case "utf-8", "utf8":
		return body
	}
	reader, err := charset.NewReaderLabel(label, bytes.NewReader(body))
	if err != nil {
		return body
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return body
	}
	return decoded
}

// baseURL returns the first usable <base href> resolved against the request
// URL, or the request URL itself
func baseURL(ex *Exchange, doc *Document) string {
	base := ex.RequestURL()
	if doc.HTML() == nil {
		return base
	}
	href := strings.TrimSpace(doc.HTML().Find("base[href]").First().AttrOr("href", ""))
	if href == "" {
		return base
	}
	abs, err := ResolveURL(base, href)
	if err != nil {
		return base
	}
	return abs
}
