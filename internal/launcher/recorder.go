package launcher

import "sync"

// Recorder is an Opener that records requests instead of launching
// anything. Err, when set, is returned from every call.
type Recorder struct {
	mu       sync.Mutex
	opened   []string
	revealed []string
	Err      error
}

func (r *Recorder) Open(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, path)
	return r.Err
}

func (r *Recorder) Reveal(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revealed = append(r.revealed, path)
	return r.Err
}

// Opened returns the paths passed to Open.
func (r *Recorder) Opened() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.opened...)
}

// Revealed returns the paths passed to Reveal.
func (r *Recorder) Revealed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.revealed...)
}
