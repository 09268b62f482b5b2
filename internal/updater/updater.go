// Package updater defines the external update call a config is applied with
// and routes it to a target by authority scheme.
//
// An authority has the form "<scheme>://<target>", e.g. "pdns://example.org"
// or "settings://billing". A bare authority uses the default scheme.
package updater

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrPermissionDenied marks a rejection of the caller's permission by the target.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUnknownScheme is returned for an authority scheme without a registered updater.
	ErrUnknownScheme = errors.New("unknown authority scheme")
	// ErrEmptyTarget is returned for an authority without a target.
	ErrEmptyTarget = errors.New("authority target is empty")
)

// Updater applies params to the resource identified by target and returns
// the number of entries affected. Permission failures wrap ErrPermissionDenied.
type Updater interface {
	Update(ctx context.Context, target string, params map[string]string) (int, error)
}

// Func adapts a function to Updater.
type Func func(ctx context.Context, target string, params map[string]string) (int, error)

// Update calls f.
func (f Func) Update(ctx context.Context, target string, params map[string]string) (int, error) {
	return f(ctx, target, params)
}

// ParseAuthority splits authority into scheme and target.
func ParseAuthority(authority, defaultScheme string) (scheme, target string, err error) {
	authority = strings.TrimSpace(authority)

	scheme, target, found := strings.Cut(authority, "://")
	if !found {
		scheme, target = defaultScheme, authority
	}

	scheme = strings.ToLower(scheme)
	target = strings.TrimSpace(target)

	if target == "" {
		return scheme, "", fmt.Errorf("%w: %q", ErrEmptyTarget, authority)
	}

	return scheme, target, nil
}

// Mux dispatches an authority to the updater registered for its scheme.
type Mux struct {
	defaultScheme string

	mu      sync.RWMutex
	targets map[string]Updater
}

// NewMux returns an empty Mux using defaultScheme for bare authorities.
func NewMux(defaultScheme string) *Mux {
	return &Mux{defaultScheme: strings.ToLower(defaultScheme), targets: make(map[string]Updater)}
}

// Handle registers u for scheme, replacing any previous registration.
func (m *Mux) Handle(scheme string, u Updater) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.targets[strings.ToLower(scheme)] = u
}

// Schemes returns the registered schemes in sorted order.
func (m *Mux) Schemes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	schemes := make([]string, 0, len(m.targets))
	for s := range m.targets {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)

	return schemes
}

// Update implements the external update call for a full authority.
func (m *Mux) Update(ctx context.Context, authority string, params map[string]string) (int, error) {
	scheme, target, err := ParseAuthority(authority, m.defaultScheme)
	if err != nil {
		return 0, err
	}

	m.mu.RLock()
	u, ok := m.targets[scheme]
	m.mu.RUnlock()

	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}

	return u.Update(ctx, target, params)
}
