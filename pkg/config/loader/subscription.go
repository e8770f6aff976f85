// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package loader

import (
	"sync"

	"github.com/antimetal/profiler/pkg/config"
)

type subscription struct {
	ch chan *config.Config
}

type subscriptions struct {
	mu     sync.RWMutex
	subs   []subscription
	closed bool
}

func (s *subscriptions) add() chan *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	ch := make(chan *config.Config, 10)
	s.subs = append(s.subs, subscription{ch: ch})
	return ch
}

// send hands an independent deep clone to every subscriber, so no
// ownership is shared across goroutines.
func (s *subscriptions) send(cfg *config.Config) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	for _, sub := range s.subs {
		sub.ch <- cfg.Clone()
	}
}

func (s *subscriptions) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	for _, sub := range s.subs {
		close(sub.ch)
	}
	s.closed = true
}
