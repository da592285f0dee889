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
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// Request is the request half of an Exchange
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// Response is the response half of an Exchange
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Exchange is one fetched HTTP request/response pair. Parsers treat it as
// read-only.
type Exchange struct {
	Request  *Request
	Response *Response
}

// NewExchange is a convenience constructor for a GET exchange
func NewExchange(rawURL string, statusCode int, header http.Header, body []byte) (*Exchange, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if header == nil {
		header = http.Header{}
	}
	return &Exchange{
		Request: &Request{
			Method: http.MethodGet,
			URL:    u,
			Header: http.Header{},
		},
		Response: &Response{
			StatusCode: statusCode,
			Header:     header,
			Body:       body,
		},
	}, nil
}

// RequestURL returns the request URL as a string, or "" when unknown
func (e *Exchange) RequestURL() string {
	if e.Request == nil || e.Request.URL == nil {
		return ""
	}
	return e.Request.URL.String()
}

// RequestPath returns the request URL path, or "" when unknown
func (e *Exchange) RequestPath() string {
	if e.Request == nil || e.Request.URL == nil {
		return ""
	}
	return e.Request.URL.Path
}

// StatusCode returns the response status, 0 when there is no response
func (e *Exchange) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// ResponseHeader returns the first value of a response header
func (e *Exchange) ResponseHeader(name string) string {
	if e.Response == nil || e.Response.Header == nil {
		return ""
	}
	return e.Response.Header.Get(name)
}

// ResponseHeaderValues returns every value of a response header
func (e *Exchange) ResponseHeaderValues(name string) []string {
	if e.Response == nil || e.Response.Header == nil {
		return nil
	}
	return e.Response.Header.Values(name)
}

// Body returns the raw response body
func (e *Exchange) Body() []byte {
	if e.Response == nil {
		return nil
	}
	return e.Response.Body
}

// ContentType returns the lower-cased media type of the response. When the
// header is missing the body is sniffed.
func (e *Exchange) ContentType() string {
	ct := e.ResponseHeader("Content-Type")
	if ct == "" {
		if len(e.Body()) == 0 {
			return ""
		}
		ct = http.DetectContentType(e.Body())
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mediaType, _, _ = strings.Cut(ct, ";")
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// IsHTML reports whether the response carries an HTML document
func (e *Exchange) IsHTML() bool {
	switch e.ContentType() {
	case "text/html", "application/xhtml+xml":
		return true
	}
	return false
}

// IsXML reports whether the response media type is XML-ish
func (e *Exchange) IsXML() bool {
	return strings.Contains(e.ContentType(), "xml")
}

// IsText reports whether the response media type is text/*
func (e *Exchange) IsText() bool {
	return strings.HasPrefix(e.ContentType(), "text/")
}

// IsRedirect reports whether the response status is 3xx
func (e *Exchange) IsRedirect() bool {
	s := e.StatusCode()
	return s >= 300 && s < 400
}

func (e *Exchange) charsetLabel() string {
	_, params, err := mime.ParseMediaType(e.ResponseHeader("Content-Type"))
	if err != nil {
		return ""
	}
	return strings.ToLower(params["charset"])
}

func mustExchange(ex *Exchange) {
	if ex == nil {
		panic("bluespider: nil exchange")
	}
}

func mustDepth(depth int) {
	if depth < 0 {
		panic("bluespider: negative depth")
	}
}
