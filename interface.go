package logx

// Logger is the call-site surface: one method per record kind, each taking a
// tag and a message. JSON expects a JSON document as its message.
type Logger interface {
	Verbose(tag, msg string)
	Debug(tag, msg string)
	Info(tag, msg string)
	Warn(tag, msg string)
	Error(tag, msg string)
	JSON(tag, doc string)
	Thread(tag, msg string)
	Parent(tag, msg string)
}
