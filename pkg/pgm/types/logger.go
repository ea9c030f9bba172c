package types

// Logger is the logging contract the receive path depends on, carried over
// from the teacher's pkg/mcast/definition.DefaultLogger method set but kept
// as a narrow interface here so callers can plug in any implementation
// (pkg/pgm/definition ships the default, logrus-backed one).
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}
