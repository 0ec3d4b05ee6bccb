package topology

import "sync"

// BasicView records the REST connection details it is given.
type BasicView struct {
	name string

	mu  sync.RWMutex
	cfg *ContextConfig
}

func NewBasicView(name string) *BasicView {
	return &BasicView{name: name}
}

func (v *BasicView) Name() string { return v.name }

func (v *BasicView) SetStreamsContextConfig(cfg ContextConfig) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cfg = &cfg
}

// StreamsContextConfig returns the connection details, and false if none
// were set yet.
func (v *BasicView) StreamsContextConfig() (ContextConfig, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.cfg == nil {
		return ContextConfig{}, false
	}
	return *v.cfg, true
}
