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

package fetch

import (
	"net/http"
	"net/http/httptrace"
	"time"
)

// requestTrace records connection timings of a single request
type requestTrace struct {
	start, connect    time.Time
	ConnectDuration   time.Duration
	FirstByteDuration time.Duration
}

func (rt *requestTrace) clientTrace() *httptrace.ClientTrace {
	return &httptrace.ClientTrace{
		ConnectStart: func(network, addr string) { rt.connect = time.Now() },
		ConnectDone: func(network, addr string, err error) {
			rt.ConnectDuration = time.Since(rt.connect)
		},
		GetConn: func(hostPort string) { rt.start = time.Now() },
		GotFirstResponseByte: func() {
			rt.FirstByteDuration = time.Since(rt.start)
		},
	}
}

// withTrace returns req with the trace attached to its context
func (rt *requestTrace) withTrace(req *http.Request) *http.Request {
	return req.WithContext(httptrace.WithClientTrace(req.Context(), rt.clientTrace()))
}
