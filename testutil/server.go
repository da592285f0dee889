// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// This file includes modifications to code originally developed by Adam Tauber,
// licensed under the Apache License, Version 2.0.
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

// Package testutil provides a small fixture site for bluespider tests.
//
// The site served by NewTestServer looks like this:
//
//	/            HTML: links to /about and /old, a GET form to /search,
//	             a mailto link, an image and a Link header to /style.css
//	/about       HTML: links back to / and to /private
//	/old         301 to /about
//	/search      HTML search results
//	/private     HTML, disallowed by robots.txt
//	/robots.txt  disallows /private and names /sitemap.xml
//	/sitemap.xml urlset with /about and /notes.txt
//	/notes.txt   plain text mentioning http://example.org/elsewhere
//	/500         server error
//	/slow        waits before answering
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"
)

// Fixture bodies shared across tests
var (
	IndexHTML = []byte(`<!DOCTYPE html>
<html>
<head>
<title>Fixture Home</title>
<link rel="stylesheet" href="/style.css">
</head>
<body>
<a href="/about">About</a>
<a href="/old#top">Old about page</a>
<a href="mailto:team@example.com">Mail</a>
<img src="/logo.png" alt="logo">
<form action="/search" method="get">
<input type="text" name="q">
<input type="submit" value="Go">
</form>
</body>
</html>
`)
	AboutHTML = []byte(`<!DOCTYPE html>
<html>
<head><title>About</title></head>
<body>
<a href="/">Home</a>
<a href="private">Private</a>
</body>
</html>
`)
	RobotsFile = `User-agent: *
Disallow: /private
`
	NotesText = "Notes\nThe mirror lives at http://example.org/elsewhere for now.\n"
)

// Handler serves the fixture site
func Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Link", "</style.css>; rel=preload; as=style")
		w.Write(IndexHTML)
	})

	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(AboutHTML)
	})

	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/about", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<html><body><p>No results for %q</p></body></html>", r.URL.Query().Get("q"))
	})

	mux.HandleFunc("/private", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><a href="/secret">secret</a></body></html>`))
	})

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "%sSitemap: http://%s/sitemap.xml\n", RobotsFile, r.Host)
	})

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>http://%[1]s/about</loc></url>
  <url><loc>http://%[1]s/notes.txt</loc></url>
</urlset>`, r.Host)
	})

	mux.HandleFunc("/notes.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(NotesText))
	})

	mux.HandleFunc("/style.css", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		w.Write([]byte("body { background: url(/bg.png) }"))
	})

	mux.HandleFunc("/500", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<p>error</p>"))
	})

	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(200 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<a href="/about">about</a>`))
	})

	return mux
}

// NewUnstartedTestServer creates an unstarted HTTP test server serving the fixture site
func NewUnstartedTestServer() *httptest.Server {
	return httptest.NewUnstartedServer(Handler())
}

// NewTestServer creates and starts the fixture site
func NewTestServer() *httptest.Server {
	srv := NewUnstartedTestServer()
	srv.Start()
	return srv
}
