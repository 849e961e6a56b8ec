package core

// LogPerson identifies who triggered the logged event.
type LogPerson struct {
	ID       string
	Username string
	Email    string
}

type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
