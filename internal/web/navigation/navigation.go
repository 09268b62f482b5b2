// Package navigation turns the navigation requests of the command surface
// into API locations for the current request.
package navigation

import (
	"errors"
	"strconv"
	"sync"
)

const (
	// ConfigsPath is the collection of configs.
	ConfigsPath = "/api/configs"
	// ValuesPath is the collection of key/values addressed by id.
	ValuesPath = "/api/values"
)

// ConfigPath is the location of config id.
func ConfigPath(id uint64) string {
	return ConfigsPath + "/" + strconv.FormatUint(id, 10)
}

// KeyValuesPath is the location of the key/values of config id.
func KeyValuesPath(configID uint64) string {
	return ConfigPath(configID) + "/values"
}

// KeyValuePath is the location of key/value id.
func KeyValuePath(id uint64) string {
	return ValuesPath + "/" + strconv.FormatUint(id, 10)
}

// Recorder collects the navigation of one request. It is safe for use from
// the worker goroutine running the command.
type Recorder struct {
	mu       sync.Mutex
	location string
	errs     []error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// ShowDetails records the location of config id.
func (r *Recorder) ShowDetails(configID uint64) {
	r.set(ConfigPath(configID))
}

// ShowKeyValueDetails records the location of a key/value, or of the
// collection a new one is created in when keyValueID is nil.
func (r *Recorder) ShowKeyValueDetails(configID uint64, keyValueID *uint64) {
	if keyValueID == nil {
		r.set(KeyValuesPath(configID))
		return
	}

	r.set(KeyValuePath(*keyValueID))
}

// NotifyError records err for the response.
func (r *Recorder) NotifyError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errs = append(r.errs, err)
}

// Location returns the last recorded location, or "".
func (r *Recorder) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.location
}

// Err joins the errors recorded so far.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return errors.Join(r.errs...)
}

func (r *Recorder) set(location string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.location = location
}
