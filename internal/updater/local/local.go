// Package local applies configs to the settings table of paramset itself.
// The authority target is the settings namespace.
package local

import (
	"context"
	"fmt"

	"github.com/paramset/paramset/internal/db/models"
	"github.com/paramset/paramset/internal/updater"
)

// SettingsWriter persists a batch of settings and returns the rows written.
type SettingsWriter interface {
	SetSettings(ctx context.Context, namespace string, values map[string]string) (int, error)
}

// Updater writes parameters as settings rows.
type Updater struct {
	writer  SettingsWriter
	allowed map[string]struct{}
}

// New returns an Updater writing through w. A non-empty allowed list
// restricts the writable namespaces.
func New(w SettingsWriter, allowed []string) *Updater {
	u := &Updater{writer: w}

	if len(allowed) > 0 {
		u.allowed = make(map[string]struct{}, len(allowed))
		for _, ns := range allowed {
			u.allowed[ns] = struct{}{}
		}
	}

	return u
}

// Update writes params into namespace and returns the rows written.
func (u *Updater) Update(ctx context.Context, namespace string, params map[string]string) (int, error) {
	if !u.writable(namespace) {
		return 0, fmt.Errorf("%w: namespace %q", updater.ErrPermissionDenied, namespace)
	}

	return u.writer.SetSettings(ctx, namespace, params)
}

func (u *Updater) writable(namespace string) bool {
	if namespace == models.SystemNamespace {
		return false
	}

	if u.allowed == nil {
		return true
	}

	_, ok := u.allowed[namespace]

	return ok
}
