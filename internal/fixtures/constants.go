package fixtures

// Defaults for synthetic generation.
const (
	DefaultAttributes = 12
	DefaultRuns       = 3
	DefaultSeed       = 1
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)
