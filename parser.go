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
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// ResourceListener receives every resource a parser discovers
type ResourceListener interface {
	ResourceFound(r *Resource)
}

// ResourceListenerFunc adapts a function to ResourceListener
type ResourceListenerFunc func(r *Resource)

// ResourceFound implements ResourceListener
func (f ResourceListenerFunc) ResourceFound(r *Resource) { f(r) }

// ListenerID identifies a registered listener for removal
type ListenerID uint64

// Parser extracts candidate resources from an exchange.
//
// CanHandle is given the request path (possibly empty) and whether an earlier
// parser already consumed the exchange. Parse reports whether it considers
// the exchange fully consumed. Both panic on a nil exchange and Parse panics
// on a negative depth. Implementations are safe for concurrent use.
type Parser interface {
	Name() string
	CanHandle(ex *Exchange, path string, consumed bool) bool
	Parse(ex *Exchange, doc *Document, depth int) bool
	AddListener(l ResourceListener) ListenerID
	RemoveListener(id ListenerID) bool
}

type listenerContainer struct {
	id       ListenerID
	listener ResourceListener
	// active is cleared on removal so an in-flight notification pass skips it
	active atomic.Bool
}

// listenerRegistry is the zero-value-ready listener list shared by parsers
// and the controller. Notification iterates over a snapshot.
type listenerRegistry struct {
	lock      sync.RWMutex
	listeners []*listenerContainer
	nextID    atomic.Uint64
}

// AddListener registers l and returns its handle
func (r *listenerRegistry) AddListener(l ResourceListener) ListenerID {
	c := &listenerContainer{
		id:       ListenerID(r.nextID.Add(1)),
		listener: l,
	}
	c.active.Store(true)
	r.lock.Lock()
	r.listeners = append(r.listeners, c)
	r.lock.Unlock()
	return c.id
}

// RemoveListener unregisters a listener. It returns false for unknown ids.
func (r *listenerRegistry) RemoveListener(id ListenerID) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	for i, c := range r.listeners {
		if c.id == id {
			c.active.Store(false)
			r.listeners = slices.Delete(r.listeners, i, i+1)
			return true
		}
	}
	return false
}

// ListenerCount returns the number of registered listeners
func (r *listenerRegistry) ListenerCount() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.listeners)
}

func (r *listenerRegistry) notify(res *Resource) {
	r.lock.RLock()
	listeners := slices.Clone(r.listeners)
	r.lock.RUnlock()

	for _, c := range listeners {
		if !c.active.Load() {
			continue
		}
		c.listener.ResourceFound(res)
	}
}

// parserBase carries what every built-in parser shares
type parserBase struct {
	listenerRegistry
	config *Config
	logger *slog.Logger
}

func (p *parserBase) init(cfg *Config) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	p.config = cfg
	p.logger = cfg.logger()
}

// emitURL resolves ref against base and notifies listeners. Unresolvable
// references are dropped.
func (p *parserBase) emitURL(base, ref string, depth int, opts ...ResourceOption) bool {
	uri, err := ResolveURL(base, ref)
	if err != nil {
		p.logger.Debug("dropping unresolvable reference", "ref", ref, "err", err)
		return false
	}
	return p.emit(uri, append([]ResourceOption{WithDepth(depth)}, opts...)...)
}

func (p *parserBase) emit(uri string, opts ...ResourceOption) bool {
	r, err := NewResource(uri, opts...)
	if err != nil {
		p.logger.Debug("dropping resource", "uri", uri, "err", err)
		return false
	}
	p.notify(r)
	return true
}
