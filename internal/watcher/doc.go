// Package watcher reports changes to a fixed set of data files, such as
// the publications JSON, so a running session can reload them.
//
// fsnotify is used when available, watching each file's directory so that
// editors that save by renaming a temporary file are still seen. Polling
// by modification time and size is the fallback. Bursts of events are
// coalesced by a Debouncer before they are delivered.
//
// Usage:
//
//	w, err := watcher.New([]string{"data/publications.json"}, watcher.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//	go w.Start(ctx)
//
//	for batch := range w.Events() {
//	    // reload
//	}
package watcher
