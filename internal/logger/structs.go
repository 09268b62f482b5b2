package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool
}

// Rotation holds the lumberjack rotation limits of one log file.
type Rotation struct {
	MaxSize    int `toml:"maxSize"` // megabytes
	MaxBackups int `toml:"maxBackups"`
	MaxAge     int `toml:"maxAge"` // days
}

// LogFile implements a file based logger with one rolling file per level group.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	AccessLog string `toml:"access"`
	ErrorLog  string `toml:"error"`
	InfoLog   string `toml:"info"`
	TraceLog  string `toml:"trace"`
	WarnLog   string `toml:"warn"`

	// Rotation applies to every file above.
	Rotation Rotation `toml:"rotation"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.
	LogEnv   string

	// EnableAccessLogToConsole if true the http api access log is written to the console as well.
	// Does not overrule flag Console.Enabled!
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	// SQLLevel is the level gorm statements are logged with: silent, error, warn or info.
	SQLLevel string `toml:"sqlLevel"`

	AppName     string
	ServiceName string

	// Console used mainly for docker and dev.
	Console Console

	File LogFile `toml:"file"`
}
