package powerdns

import (
	"errors"
	"net/http"

	"github.com/joeig/go-powerdns/v3"
)

var (
	// ErrClientNotInitialized is returned when no PowerDNS server is configured.
	ErrClientNotInitialized = errors.New("PowerDNS client not initialized")

	// ErrInvalidRecordKey is returned for a parameter key that does not name an RRset.
	ErrInvalidRecordKey = errors.New("invalid record key")
)

// statusCode extracts the HTTP status of a PowerDNS API error, or 0.
func statusCode(err error) int {
	var ptr *powerdns.Error
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.StatusCode
	}

	var val powerdns.Error
	if errors.As(err, &val) {
		return val.StatusCode
	}

	return 0
}

func isPermissionError(err error) bool {
	switch statusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	default:
		return false
	}
}
