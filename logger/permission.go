package logger

// Permission implementations indicate whether the caller is allowed to
// create new log entries. Useful for call sites that want to log only
// under a verbose/debug flag without threading a *bool everywhere.
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool {
	return true
}

// Allow indicates that the logging request should always be allowed.
var Allow Permission = allow{}
