package rewriter

import (
	"sync"

	"github.com/whit3rabbit/gdmixer/internal/scrambler"
)

// Registry holds the run-wide mutable name sets shared by every file in a
// run: the banned set (engine-reserved names plus run-time additions), the
// explicitly-banned record, and user-declared type names. All sets are
// monotonic within a run; entries are added, never removed or reassigned.
type Registry struct {
	mu        sync.RWMutex
	banned    map[string]bool
	explicit  map[string]bool
	userTypes map[string]bool
}

// NewRegistry returns a registry pre-seeded with the engine-reserved
// names.
func NewRegistry() *Registry {
	r := &Registry{
		banned:    make(map[string]bool),
		explicit:  make(map[string]bool),
		userTypes: make(map[string]bool),
	}
	for _, name := range scrambler.Reserved() {
		r.banned[name] = true
	}
	return r
}

// Ban adds names to the banned set and marks them explicitly banned.
// Explicitly banned names skip the banned-branch bookkeeping on later
// encounters.
func (r *Registry) Ban(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		r.banned[name] = true
		r.explicit[name] = true
	}
}

// IsBanned reports whether the name must never be renamed.
func (r *Registry) IsBanned(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.banned[name]
}

// IsExplicitBan reports whether the name was banned at run time.
func (r *Registry) IsExplicitBan(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.explicit[name]
}

// AddUserType records a class name introduced by a class_name
// declaration.
func (r *Registry) AddUserType(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userTypes[name] = true
}

// IsUserType reports whether the name was declared as a user type in any
// file processed so far.
func (r *Registry) IsUserType(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userTypes[name]
}
