package config

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultTimezone is the display timezone applied to timestamps in
	// responses. The shop runs on local wall-clock time; storage stays UTC.
	DefaultTimezone = "America/Sao_Paulo"

	// DefaultLogFormat is the default log output format.
	DefaultLogFormat = "json"
)
