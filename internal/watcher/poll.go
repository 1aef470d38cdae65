package watcher

import (
	"os"
	"time"
)

type fileState struct {
	exists  bool
	modTime time.Time
	size    int64
}

// poller compares stat results of the watched files between ticks.
type poller struct {
	interval time.Duration
	state    map[string]fileState
}

func newPoller(paths []string, interval time.Duration) *poller {
	p := &poller{interval: interval, state: make(map[string]fileState, len(paths))}
	for _, path := range paths {
		p.state[path] = stat(path)
	}
	return p
}

// poll returns one event per file whose state changed since the last call.
func (p *poller) poll() []FileEvent {
	var events []FileEvent
	now := time.Now()
	for path, prev := range p.state {
		cur := stat(path)
		p.state[path] = cur

		switch {
		case !prev.exists && cur.exists:
			events = append(events, FileEvent{Path: path, Operation: OpCreate, Timestamp: now})
		case prev.exists && !cur.exists:
			events = append(events, FileEvent{Path: path, Operation: OpDelete, Timestamp: now})
		case cur.exists && (!cur.modTime.Equal(prev.modTime) || cur.size != prev.size):
			events = append(events, FileEvent{Path: path, Operation: OpModify, Timestamp: now})
		}
	}
	return events
}

func stat(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, modTime: info.ModTime(), size: info.Size()}
}
