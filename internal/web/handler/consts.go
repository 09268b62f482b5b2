package handler

const (
	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"

	// ErrNilACDFatalLogMsg is used if app, cfg or deps is nil.
	ErrNilACDFatalLogMsg = "app, cfg or deps is nil"
)
