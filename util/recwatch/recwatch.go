// Tc
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.
//
// Additional permission under GNU GPL version 3 section 7
//
// If you modify this program, or any covered work, by linking or combining it
// with embedded mcl code and modules (and that the embedded mcl code and
// modules which link with this program, contain a copy of their source code in
// the authoritative form) containing parts covered by the terms of any other
// license, the licensors of this program grant you additional permission to
// convey the resulting work. Furthermore, the licensors of this program grant
// the original author, James Shubin, additional permission to update this
// additional permission if he deems it necessary to achieve the goals of this
// additional permission.

// Package recwatch provides file and recursive directory watching events via
// fsnotify.
package recwatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
)

// Event represents a watcher event. These can include errors.
type Event struct {
	Error error
	Body  *fsnotify.Event
}

// RecWatcher watches a list of paths. Files are watched through their parent
// directory, so that editors which replace the file on save are seen. Dirs are
// watched recursively. Run Init() on it.
type RecWatcher struct {
	// Paths are the files and directories that we're watching.
	Paths []string

	// Opts are the list of options that we are using this with.
	Opts []Option

	options *recwatchOptions    // computed options
	files   map[string]struct{} // clean file paths
	roots   map[string]struct{} // clean dir paths
	watches map[string]struct{} // everything added to the watcher
	watcher *fsnotify.Watcher
	events  chan Event // one channel for events and err...
	closed  bool       // is the events channel closed?
	mutex   sync.Mutex // lock guarding the channel closing
	wg      sync.WaitGroup
	exit    chan struct{}
}

// NewRecWatcher creates an initializes a new watcher.
func NewRecWatcher(paths []string, opts ...Option) (*RecWatcher, error) {
	obj := &RecWatcher{
		Paths: paths,
		Opts:  opts,
	}
	return obj, obj.Init()
}

// Init starts the file watcher.
func (obj *RecWatcher) Init() error {
	obj.files = make(map[string]struct{})
	obj.roots = make(map[string]struct{})
	obj.watches = make(map[string]struct{})
	obj.events = make(chan Event)
	obj.exit = make(chan struct{})
	obj.options = &recwatchOptions{ // default recwatch options
		debug: false,
		logf: func(format string, v ...interface{}) {
			// noop
		},
	}
	for _, optionFunc := range obj.Opts { // apply the recwatch options
		optionFunc(obj.options)
	}

	if obj.options.logf == nil {
		return fmt.Errorf("recwatch: logf must not be nil")
	}
	if len(obj.Paths) == 0 {
		return fmt.Errorf("recwatch: nothing to watch")
	}

	var err error
	obj.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	for _, p := range obj.Paths {
		safename := filepath.Clean(p)
		if isDir(safename) {
			obj.roots[safename] = struct{}{}
			if err := obj.addSubFolders(safename); err != nil {
				obj.watcher.Close()
				return err
			}
			continue
		}
		obj.files[safename] = struct{}{}
		if err := obj.add(filepath.Dir(safename)); err != nil {
			obj.watcher.Close()
			return err
		}
	}

	obj.wg.Add(1)
	go func() {
		defer obj.wg.Done()
		if err := obj.Watch(); err != nil {
			// we need this mutex, because if we Init and then Close
			// immediately, this can send after closed which panics!
			obj.mutex.Lock()
			if !obj.closed {
				select {
				case obj.events <- Event{Error: err}:
				case <-obj.exit:
					// pass
				}
			}
			obj.mutex.Unlock()
		}
	}()
	return nil
}

// Close shuts down the watcher.
func (obj *RecWatcher) Close() error {
	var err error
	close(obj.exit) // send exit signal
	obj.wg.Wait()
	if obj.watcher != nil {
		err = obj.watcher.Close()
		obj.watcher = nil
	}
	obj.mutex.Lock()
	obj.closed = true
	close(obj.events)
	obj.mutex.Unlock()
	return err
}

// Events returns a channel of events. These include events for errors.
func (obj *RecWatcher) Events() chan Event { return obj.events }

// Watch is the primary listener for this watcher and it outputs events.
func (obj *RecWatcher) Watch() error {
	if obj.watcher == nil {
		return fmt.Errorf("the watcher is not initialized")
	}

	for {
		select {
		case event, ok := <-obj.watcher.Events:
			if !ok {
				return nil
			}
			if obj.options.debug {
				obj.options.logf("event(%s): %v", event.Name, event.Op)
			}
			name := filepath.Clean(event.Name)

			send := false
			if _, exists := obj.files[name]; exists {
				send = true
			}
			for root := range obj.roots {
				if name == root || hasPathPrefix(name, root) {
					send = true
				}
			}
			if !send {
				continue // a sibling of a file we watch
			}

			if event.Op&fsnotify.Remove == fsnotify.Remove {
				if _, exists := obj.watches[name]; exists {
					obj.watcher.Remove(name)
					delete(obj.watches, name)
				}
			}
			if event.Op&fsnotify.Create == fsnotify.Create && isDir(name) {
				if err := obj.addSubFolders(name); err != nil {
					return err
				}
			}

			select {
			// exit even when we're blocked on event sending
			case obj.events <- Event{Error: nil, Body: &event}:
			case <-obj.exit:
				return fmt.Errorf("pending event not sent")
			}

		case err, ok := <-obj.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("unknown watcher error: %v", err)

		case <-obj.exit:
			return nil
		}
	}
}

// add adds a single watch, and turns the common errors into readable ones.
func (obj *RecWatcher) add(p string) error {
	if _, exists := obj.watches[p]; exists {
		return nil
	}
	if obj.options.debug {
		obj.options.logf("watching: %s", p)
	}
	if err := obj.watcher.Add(p); err != nil {
		if err == syscall.ENOSPC {
			// no space left on device, out of inotify watches
			return fmt.Errorf("out of inotify watches: %v", err)
		} else if os.IsPermission(err) {
			return fmt.Errorf("permission denied adding a watch: %v", err)
		} else if err == syscall.ENOENT || os.IsNotExist(err) {
			return fmt.Errorf("can't watch missing path %s: %v", p, err)
		}
		return fmt.Errorf("unknown error: %v", err)
	}
	obj.watches[p] = struct{}{}
	return nil
}

// addSubFolders is a helper that is used to add recursive dirs to the watches.
func (obj *RecWatcher) addSubFolders(p string) error {
	// look at all subfolders...
	walkFn := func(path string, info os.FileInfo, err error) error {
		if obj.options.debug {
			obj.options.logf("walk: %s: %v", path, err)
		}
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return obj.add(path)
		}
		return nil
	}
	return filepath.Walk(p, walkFn)
}

// Option is a type that can be used to configure the recwatcher.
type Option func(*recwatchOptions)

type recwatchOptions struct {
	debug bool
	logf  func(format string, v ...interface{})
}

// Debug specifies whether we should run in debug mode or not.
func Debug(debug bool) Option {
	return func(rwo *recwatchOptions) {
		rwo.debug = debug
	}
}

// Logf passes a logger function that we can use if so desired.
func Logf(logf func(format string, v ...interface{})) Option {
	return func(rwo *recwatchOptions) {
		rwo.logf = logf
	}
}

func isDir(path string) bool {
	finfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return finfo.IsDir()
}

// hasPathPrefix returns true if p is inside of the dir.
func hasPathPrefix(p, dir string) bool {
	return strings.HasPrefix(p, strings.TrimSuffix(dir, string(filepath.Separator))+string(filepath.Separator))
}
