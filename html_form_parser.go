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
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// formBoundary is fixed so identical forms always produce identical bodies
const formBoundary = "BlueSpiderFormBoundary7MA4YWxkTrZu0gW"

const controlsXPath = "//*[self::input or self::select or self::textarea or self::button]"

// HTMLFormParser turns HTML forms into GET or POST resources, one per submit
// control
type HTMLFormParser struct {
	parserBase
}

// NewHTMLFormParser creates an HTMLFormParser. A nil config uses defaults.
func NewHTMLFormParser(cfg *Config) *HTMLFormParser {
	p := &HTMLFormParser{}
	p.init(cfg)
	return p
}

// Name implements Parser
func (p *HTMLFormParser) Name() string { return "html-form" }

// CanHandle accepts unconsumed HTML responses while form processing is on
func (p *HTMLFormParser) CanHandle(ex *Exchange, path string, consumed bool) bool {
	mustExchange(ex)
	return !consumed && p.config.ProcessForms && ex.IsHTML()
}

// Parse emits form submissions at depth+1. It never consumes the exchange
// and does nothing without a parsed document.
func (p *HTMLFormParser) Parse(ex *Exchange, doc *Document, depth int) bool {
	mustExchange(ex)
	mustDepth(depth)

	root := doc.Root()
	if root == nil {
		return false
	}
	base := baseURL(ex, doc)
	controls := htmlquery.Find(root, controlsXPath)
	for _, form := range htmlquery.Find(root, "//form") {
		f := &formSubmission{
			parser: p,
			form:   form,
			origin: ex.RequestURL(),
			base:   base,
			depth:  depth + 1,
		}
		f.process(ownedControls(form, controls))
	}
	return false
}

// ownedControls returns, in document order, the controls nested in form
// without a form attribute of their own, plus those anywhere in the
// document whose form attribute names the form's id
func ownedControls(form *html.Node, controls []*html.Node) []*html.Node {
	id := htmlquery.SelectAttr(form, "id")
	var owned []*html.Node
	for _, c := range controls {
		if htmlquery.ExistsAttr(c, "form") {
			if id != "" && htmlquery.SelectAttr(c, "form") == id {
				owned = append(owned, c)
			}
			continue
		}
		if nearestForm(c) == form {
			owned = append(owned, c)
		}
	}
	return owned
}

func nearestForm(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "form" {
			return p
		}
	}
	return nil
}

type formPair struct {
	name  string
	value string
}

// formEntry is either a group of ordinary pairs or a submit slot
type formEntry struct {
	pairs  []formPair
	submit *html.Node
	// checked is set once a radio group holds its checked member
	checked bool
}

type formSubmission struct {
	parser *HTMLFormParser
	form   *html.Node
	origin string
	base   string
	depth  int

	action    string
	method    string
	multipart bool
	formAttrs map[string]string
}

func (f *formSubmission) process(controls []*html.Node) {
	f.formAttrs = attrMap(f.form)
	f.method = formMethod(f.formAttrs["method"])
	action := strings.TrimSpace(f.formAttrs["action"])
	if action == "" {
		action = f.origin
	}
	abs, err := ResolveURL(f.base, action)
	if err != nil {
		f.parser.logger.Debug("dropping form with unresolvable action", "action", action, "err", err)
		return
	}
	f.action = abs
	f.multipart = strings.EqualFold(strings.TrimSpace(f.formAttrs["enctype"]), "multipart/form-data")

	entries := f.collect(controls)
	var submits []int
	for i, e := range entries {
		if e.submit != nil {
			submits = append(submits, i)
		}
	}
	if len(submits) == 0 {
		f.submit(entries, -1)
		return
	}
	for _, i := range submits {
		f.submit(entries, i)
	}
}

func (f *formSubmission) collect(controls []*html.Node) []formEntry {
	var entries []formEntry
	radios := map[string]int{}
	for _, c := range controls {
		name := htmlquery.SelectAttr(c, "name")
		switch c.Data {
		case "button":
			t := strings.ToLower(strings.TrimSpace(htmlquery.SelectAttr(c, "type")))
			if t == "" || t == "submit" {
				entries = append(entries, formEntry{submit: c})
			}
		case "input":
			raw := strings.ToLower(strings.TrimSpace(htmlquery.SelectAttr(c, "type")))
			switch raw {
			case "submit", "image":
				entries = append(entries, formEntry{submit: c})
				continue
			case "reset", "button", "file":
				continue
			}
			if name == "" {
				continue
			}
			ft := ParseFieldType(raw)
			value := f.value(c, name, ft, htmlquery.SelectAttr(c, "value"))
			if ft != FieldRadio {
				entries = append(entries, formEntry{pairs: []formPair{{name, value}}})
				continue
			}
			checked := htmlquery.ExistsAttr(c, "checked")
			if i, ok := radios[name]; ok {
				if checked && !entries[i].checked {
					entries[i].pairs = []formPair{{name, value}}
					entries[i].checked = true
				}
				continue
			}
			radios[name] = len(entries)
			entries = append(entries, formEntry{pairs: []formPair{{name, value}}, checked: checked})
		case "select":
			if name == "" {
				continue
			}
			entries = append(entries, formEntry{pairs: f.selectPairs(c, name)})
		case "textarea":
			if name == "" {
				continue
			}
			value := f.value(c, name, FieldTextArea, htmlquery.InnerText(c))
			entries = append(entries, formEntry{pairs: []formPair{{name, value}}})
		}
	}
	return entries
}

func (f *formSubmission) selectPairs(c *html.Node, name string) []formPair {
	var options, selected []string
	for _, o := range htmlquery.Find(c, ".//option") {
		v := htmlquery.SelectAttr(o, "value")
		if !htmlquery.ExistsAttr(o, "value") {
			v = strings.TrimSpace(htmlquery.InnerText(o))
		}
		options = append(options, v)
		if htmlquery.ExistsAttr(o, "selected") {
			selected = append(selected, v)
		}
	}
	if len(selected) > 1 && htmlquery.ExistsAttr(c, "multiple") {
		pairs := make([]formPair, 0, len(selected))
		for _, v := range selected {
			pairs = append(pairs, formPair{name, v})
		}
		return pairs
	}
	def := ""
	if len(selected) > 0 {
		def = selected[0]
	}
	return []formPair{{name, f.generate(c, name, FieldSelect, def, options)}}
}

// value returns an explicit value when present, else asks the generator
func (f *formSubmission) value(c *html.Node, name string, ft FieldType, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return f.generate(c, name, ft, "", nil)
}

func (f *formSubmission) generate(c *html.Node, name string, ft FieldType, def string, options []string) string {
	return f.parser.config.valueGenerator().GenerateValue(&ValueQuery{
		OriginURL:       f.origin,
		TargetURL:       f.action,
		FieldName:       name,
		FieldType:       ft,
		DefaultValue:    def,
		Values:          options,
		FieldAttributes: attrMap(c),
		FormAttributes:  f.formAttrs,
	})
}

// submit emits the submission triggered by entries[at], or the implicit
// submission when at is negative
func (f *formSubmission) submit(entries []formEntry, at int) {
	action, method := f.action, f.method
	var pairs []formPair
	for i, e := range entries {
		if e.submit == nil {
			pairs = append(pairs, e.pairs...)
			continue
		}
		if i != at {
			continue
		}
		if name := htmlquery.SelectAttr(e.submit, "name"); name != "" {
			pairs = append(pairs, formPair{name, htmlquery.SelectAttr(e.submit, "value")})
		}
		if fa := strings.TrimSpace(htmlquery.SelectAttr(e.submit, "formaction")); fa != "" {
			abs, err := ResolveURL(f.base, fa)
			if err != nil {
				f.parser.logger.Debug("dropping submit with unresolvable formaction", "formaction", fa, "err", err)
				return
			}
			action = abs
		}
		if htmlquery.ExistsAttr(e.submit, "formmethod") {
			method = formMethod(htmlquery.SelectAttr(e.submit, "formmethod"))
		}
	}
	if method == "POST" && !f.parser.config.PostForms {
		return
	}

	opts := []ResourceOption{WithDepth(f.depth), WithMethod(method)}
	uri := action
	switch {
	case method == "GET":
		uri = AppendQuery(action, urlEncode(pairs))
	case f.multipart:
		body, contentType := multipartEncode(pairs)
		opts = append(opts, WithBody(body), WithHeader("Content-Type", contentType))
	default:
		opts = append(opts, WithBody(urlEncode(pairs)))
	}

	r, err := NewResource(uri, opts...)
	if err != nil {
		return
	}
	f.parser.notify(r)
}

// formMethod normalizes a method attribute. Anything but POST is GET.
func formMethod(m string) string {
	if strings.EqualFold(strings.TrimSpace(m), "post") {
		return "POST"
	}
	return "GET"
}

func urlEncode(pairs []formPair) string {
	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	return sb.String()
}

func multipartEncode(pairs []formPair) (string, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	// the boundary is a valid constant, SetBoundary cannot fail
	_ = w.SetBoundary(formBoundary)
	for _, p := range pairs {
		_ = w.WriteField(p.name, p.value)
	}
	_ = w.Close()
	return buf.String(), w.FormDataContentType()
}

func attrMap(n *html.Node) map[string]string {
	m := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		if _, ok := m[a.Key]; !ok {
			m[a.Key] = a.Val
		}
	}
	return m
}
