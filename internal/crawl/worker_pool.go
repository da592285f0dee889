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

package crawl

import (
	"context"
	"sync"
)

// WorkerPool runs work items on a fixed number of goroutines fed from a
// bounded queue
type WorkerPool struct {
	maxWorkers int
	workQueue  chan func()
	wg         *sync.WaitGroup
	ctx        context.Context
}

// NewWorkerPool starts maxWorkers goroutines reading from a queue of
// queueSize items. Workers exit when ctx is cancelled or the pool is closed.
func NewWorkerPool(ctx context.Context, maxWorkers int, queueSize int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	wp := &WorkerPool{
		maxWorkers: maxWorkers,
		workQueue:  make(chan func(), queueSize),
		wg:         &sync.WaitGroup{},
		ctx:        ctx,
	}
	for i := 0; i < maxWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
	return wp
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case work, ok := <-wp.workQueue:
			if !ok {
				return
			}
			work()
		case <-wp.ctx.Done():
			return
		}
	}
}

// Submit queues a work item, blocking while the queue is full.
// Returns the context error once the pool's context is cancelled.
func (wp *WorkerPool) Submit(work func()) error {
	select {
	case wp.workQueue <- work:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// TrySubmit queues a work item if the queue has room and reports whether it did
func (wp *WorkerPool) TrySubmit(work func()) bool {
	if wp.ctx.Err() != nil {
		return false
	}
	select {
	case wp.workQueue <- work:
		return true
	default:
		return false
	}
}

// Close closes the queue and waits for the workers to finish what they hold
func (wp *WorkerPool) Close() {
	close(wp.workQueue)
	wp.wg.Wait()
}
