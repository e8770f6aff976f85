// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package loader

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"

	"github.com/antimetal/profiler/pkg/config"
)

// FSLoader loads profiler options from a single config file and reloads
// it whenever it changes. Subscribers receive an independent deep clone of
// each validated configuration.
type FSLoader struct {
	mu sync.RWMutex

	path    string
	watcher *fsnotify.Watcher
	logger  logr.Logger
	done    chan struct{}
	wg      sync.WaitGroup
	subs    subscriptions

	current *config.Config
}

// NewFSLoader watches the config file at path. The file must exist and
// hold a loadable configuration at startup; later reload failures keep
// the previous valid configuration.
func NewFSLoader(path string, logger logr.Logger) (*FSLoader, error) {
	fsLogger := logger.WithName("config.loader.fs")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	closeWatcher := func() {
		if err := watcher.Close(); err != nil {
			fsLogger.Error(err, "failed to close fs watcher")
		}
	}

	// Watch the parent directory rather than the file itself: editors and
	// config management tools typically replace the file, which would drop
	// a direct watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		defer closeWatcher()
		return nil, fmt.Errorf("failed to add watch: %w", err)
	}

	fl := &FSLoader{
		path:    path,
		watcher: watcher,
		logger:  fsLogger,
		done:    make(chan struct{}),
	}

	cfg, err := LoadFile(path, fsLogger)
	if err != nil {
		defer closeWatcher()
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	fl.current = cfg

	fl.wg.Add(1)
	go fl.processEvents()

	return fl, nil
}

// Config returns a deep clone of the current configuration.
func (fl *FSLoader) Config() *config.Config {
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	return fl.current.Clone()
}

// Watch returns a channel that receives a configuration snapshot for the
// current state and for every subsequent valid reload or on-demand
// trigger. The channel is nil if the loader is closed.
func (fl *FSLoader) Watch() <-chan *config.Config {
	ch := fl.subs.add()
	if ch == nil {
		return ch
	}

	fl.wg.Add(1)
	go func() {
		defer fl.wg.Done()
		select {
		case ch <- fl.Config():
		case <-fl.done:
		}
	}()

	return ch
}

// TriggerOnDemand stamps a new activity profiler on-demand window on the
// current configuration and republishes it to subscribers. This is the
// path taken for external trigger requests such as SIGUSR2.
func (fl *FSLoader) TriggerOnDemand() *config.Config {
	fl.mu.Lock()
	fl.current.UpdateActivityProfilerRequestReceivedTime()
	snapshot := fl.current.Clone()
	fl.mu.Unlock()

	fl.subs.send(snapshot)
	return snapshot
}

// Close stops the loader. It is safe to call once.
func (fl *FSLoader) Close() error {
	close(fl.done)
	err := fl.watcher.Close()
	fl.wg.Wait()
	fl.subs.close()
	return err
}

func (fl *FSLoader) processEvents() {
	defer fl.wg.Done()
	for {
		select {
		case <-fl.done:
			return
		case event, ok := <-fl.watcher.Events:
			if !ok {
				return
			}
			fl.handleEvent(event)
		case err, ok := <-fl.watcher.Errors:
			if !ok {
				return
			}
			fl.logger.Error(err, "filesystem watcher error")
		}
	}
}

func (fl *FSLoader) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(fl.path) {
		return
	}

	fl.logger.V(1).Info("received file event", "file", event.Name, "op", event.Op)

	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
		fl.reload()
	}
}

func (fl *FSLoader) reload() {
	cfg, err := LoadFile(fl.path, fl.logger)
	if err != nil {
		fl.logger.Error(err, "failed to reload config file, keeping previous configuration",
			"path", fl.path)
		return
	}

	fl.mu.Lock()
	fl.current = cfg
	snapshot := cfg.Clone()
	fl.mu.Unlock()

	fl.subs.send(snapshot)
}
