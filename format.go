package logx

import (
	"strings"
	"time"
)

// Caller is the call-site information resolved upstream of the writer.
type Caller struct {
	// Source is the source name (file name without extension) matched by the filter.
	Source string
	// StackInfo is the rendered call-site prefix, e.g. "(main.go:12).run - ".
	StackInfo string
	// Parent is the rendered caller-of-caller line used by PARENT records.
	Parent string
}

// Record is one logging call. It is created at the call boundary and only read afterwards.
type Record struct {
	Level     Level
	Tag       string
	Message   string
	StackInfo string
	Source    string
	Parent    string
	Thread    string
	Time      time.Time
}

// Entry is the output of a formatter and the unit consumed by both sinks.
type Entry struct {
	Level Level
	// Tag is the caller's tag, written verbatim into file lines.
	Tag string
	// Prefix is the console decoration, "<app> [<tag>] :".
	Prefix  string
	Message string
	Time    time.Time
}

// Formatter renders records of the levels it handles. ok is false when the
// formatter declines the record's level.
type Formatter interface {
	Format(rec Record, cfg Config) (entry Entry, ok bool)
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(rec Record, cfg Config) (Entry, bool)

func (f FormatterFunc) Format(rec Record, cfg Config) (Entry, bool) { return f(rec, cfg) }

var (
	// PlainFormatter handles VERBOSE through ERROR.
	PlainFormatter Formatter = FormatterFunc(formatPlain)
	// JSONFormatter pretty prints JSON records.
	JSONFormatter Formatter = FormatterFunc(formatJSON)
	// ThreadFormatter prefixes the message with the thread identity.
	ThreadFormatter Formatter = FormatterFunc(formatThread)
	// ParentFormatter renders the message line of a PARENT record.
	ParentFormatter Formatter = FormatterFunc(formatParent)
)

// formatterFor dispatches by level.
func formatterFor(l Level) Formatter {
	switch l {
	case JSON:
		return JSONFormatter
	case THREAD:
		return ThreadFormatter
	case PARENT:
		return ParentFormatter
	default:
		return PlainFormatter
	}
}

func newEntry(rec Record, cfg Config, msg string) Entry {
	return Entry{
		Level:   rec.Level,
		Tag:     rec.Tag,
		Prefix:  prefix(cfg.AppName, rec.Tag, rec.Level),
		Message: msg,
		Time:    rec.Time,
	}
}

func prefix(app, tag string, l Level) string {
	var b strings.Builder
	b.Grow(len(app) + len(tag) + 14)
	b.WriteString(app)
	b.WriteString(" [")
	b.WriteString(tag)
	b.WriteByte(']')
	switch l {
	case THREAD:
		b.WriteString(" [T_ID] :")
	case PARENT:
		b.WriteString(" [PARENT] :")
	case JSON:
		b.WriteString(" [JSON] :")
	default:
		b.WriteString(" :")
	}
	return b.String()
}

func formatPlain(rec Record, cfg Config) (Entry, bool) {
	if rec.Level > ERROR {
		return Entry{}, false
	}
	return newEntry(rec, cfg, rec.StackInfo+rec.Message), true
}

func formatJSON(rec Record, cfg Config) (Entry, bool) {
	if rec.Level != JSON {
		return Entry{}, false
	}
	return newEntry(rec, cfg, PrettyJSON(rec.Message)), true
}

func formatThread(rec Record, cfg Config) (Entry, bool) {
	if rec.Level != THREAD {
		return Entry{}, false
	}
	return newEntry(rec, cfg, "["+rec.Thread+"]"+rec.StackInfo+rec.Message), true
}

func formatParent(rec Record, cfg Config) (Entry, bool) {
	if rec.Level != PARENT {
		return Entry{}, false
	}
	return newEntry(rec, cfg, "┖"+rec.StackInfo+rec.Message), true
}

// FormatParentLine renders the caller-chain line that precedes a PARENT record.
func FormatParentLine(rec Record, cfg Config) (Entry, bool) {
	if rec.Level != PARENT {
		return Entry{}, false
	}
	return newEntry(rec, cfg, "┎"+rec.Parent), true
}

const indentUnit = "  "

// PrettyJSON indents JSON text with a single character scan. It does not
// parse, so malformed input comes back reformatted rather than rejected.
func PrettyJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/2)

	var (
		depth    int
		inQuotes bool
		prev     byte
	)
	newline := func() {
		b.WriteByte('\n')
		for i := 0; i < depth; i++ {
			b.WriteString(indentUnit)
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			if prev != '\\' {
				inQuotes = !inQuotes
			}
			b.WriteByte(c)
		case inQuotes:
			b.WriteByte(c)
		case c == '{' || c == '[':
			b.WriteByte(c)
			depth++
			newline()
		case c == '}' || c == ']':
			if depth > 0 {
				depth--
			}
			newline()
			b.WriteByte(c)
		case c == ',':
			b.WriteByte(c)
			newline()
		default:
			b.WriteByte(c)
		}
		prev = c
	}
	return b.String()
}
