package live

import (
	"sync"

	"classdumper/internal/dumper"
)

// Notifier broadcasts committed changes to any number of observers.
// Each observer grabs the current channel through Watch; the channel is
// closed, and replaced, on the next change.
type Notifier struct {
	mu      sync.Mutex
	changed chan struct{}
	state   dumper.Change
}

// NewNotifier creates a Notifier at sequence 0, epoch 0.
func NewNotifier() *Notifier {
	return &Notifier{changed: make(chan struct{})}
}

// Notify signals a committed write.
func (n *Notifier) Notify() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state.Seq++
	n.notifyLocked()
}

// Reload signals that the database was replaced. Observers should drop any
// state keyed on record identity.
func (n *Notifier) Reload() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state.Seq++
	n.state.Epoch++
	n.notifyLocked()
}

func (n *Notifier) notifyLocked() {
	close(n.changed)
	n.changed = make(chan struct{})
}

// Watch returns the channel closed by the next change and the state it was captured at.
func (n *Notifier) Watch() (<-chan struct{}, dumper.Change) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.changed, n.state
}
