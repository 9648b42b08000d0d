package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var _bufferPool = buffer.NewPool()

// contextKeys are structured fields promoted into the line prefix, in order,
// e.g. "[pass:4f3c][rule:start-master][svc:kube-apiserver]".
var contextKeys = []string{"pass", "rule", "service"}

var levelColors = map[Level]*color.Color{
	DebugLevel:   color.New(color.FgMagenta),
	SuccessLevel: color.New(color.FgGreen),
	WarnLevel:    color.New(color.FgYellow),
	ErrorLevel:   color.New(color.FgRed),
	FailLevel:    color.New(color.FgRed, color.Bold),
}

// consoleEncoder renders entries as
//
//	<time> [LEVEL] [ctx...] message key=value ...
//
// using the customlevel field emitted by Logger to recover SUCCESS and FAIL.
type consoleEncoder struct {
	zapcore.EncoderConfig
	opts   Options
	colors bool
	// attached holds string fields added through With. zap delivers those to
	// the encoder clone via AddString, not as EncodeEntry fields, so they are
	// buffered here and merged in EncodeEntry.
	attached []zapcore.Field
}

// NewConsoleEncoder returns the console encoder; colors follow
// opts.ColorConsole.
func NewConsoleEncoder(cfg zapcore.EncoderConfig, opts Options) zapcore.Encoder {
	return &consoleEncoder{EncoderConfig: cfg, opts: opts, colors: opts.ColorConsole}
}

func (enc *consoleEncoder) Clone() zapcore.Encoder {
	clone := &consoleEncoder{EncoderConfig: enc.EncoderConfig, opts: enc.opts, colors: enc.colors}
	clone.attached = make([]zapcore.Field, len(enc.attached))
	copy(clone.attached, enc.attached)
	return clone
}

func (enc *consoleEncoder) levelPrefix(ent zapcore.Entry, fields []zapcore.Field) string {
	lvl := levelFromZap(ent.Level)
	for _, f := range fields {
		if f.Key == "customlevel" && f.Type == zapcore.StringType {
			lvl = levelFromString(f.String)
			break
		}
	}
	text := "[" + lvl.CapitalString() + "]"
	if !enc.colors {
		return text
	}
	if c, ok := levelColors[lvl]; ok {
		return c.Sprint(text)
	}
	return text
}

func levelFromZap(lvl zapcore.Level) Level {
	switch lvl {
	case zapcore.DebugLevel:
		return DebugLevel
	case zapcore.WarnLevel:
		return WarnLevel
	case zapcore.ErrorLevel:
		return ErrorLevel
	case zapcore.FatalLevel, zapcore.PanicLevel, zapcore.DPanicLevel:
		return FailLevel
	default:
		return InfoLevel
	}
}

func levelFromString(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DebugLevel
	case "SUCCESS":
		return SuccessLevel
	case "WARN":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "FAIL":
		return FailLevel
	default:
		return InfoLevel
	}
}

func (enc *consoleEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line := _bufferPool.Get()

	if len(enc.attached) > 0 {
		merged := make([]zapcore.Field, 0, len(enc.attached)+len(fields))
		merged = append(merged, enc.attached...)
		merged = append(merged, fields...)
		fields = merged
	}

	if enc.TimeKey != "" {
		line.AppendString(ent.Time.Format(enc.opts.TimestampFormat))
		line.AppendString(" ")
	}

	line.AppendString(enc.levelPrefix(ent, fields))
	line.AppendString(" ")

	ctxValues := map[string]string{}
	var rest []zapcore.Field
	for _, f := range fields {
		switch {
		case f.Key == "customlevel":
		case isContextKey(f.Key):
			ctxValues[f.Key] = f.String
		default:
			rest = append(rest, f)
		}
	}
	for _, key := range contextKeys {
		if v, ok := ctxValues[key]; ok && v != "" {
			short := key
			if key == "service" {
				short = "svc"
			}
			fmt.Fprintf(line, "[%s:%s]", short, v)
		}
	}
	if len(ctxValues) > 0 {
		line.AppendString(" ")
	}

	line.AppendString(ent.Message)

	for _, f := range rest {
		line.AppendString(" ")
		line.AppendString(f.Key)
		line.AppendString("=")
		appendFieldValue(line, f)
	}

	line.AppendString(enc.LineEnding)
	return line, nil
}

func isContextKey(key string) bool {
	for _, k := range contextKeys {
		if k == key {
			return true
		}
	}
	return false
}

func appendFieldValue(line *buffer.Buffer, f zapcore.Field) {
	switch f.Type {
	case zapcore.StringType:
		if f.String == "" || strings.ContainsRune(f.String, ' ') {
			fmt.Fprintf(line, "%q", f.String)
		} else {
			line.AppendString(f.String)
		}
	case zapcore.ErrorType:
		if err, ok := f.Interface.(error); ok {
			fmt.Fprintf(line, "%q", err.Error())
		} else {
			line.AppendString("nil")
		}
	case zapcore.BoolType:
		line.AppendBool(f.Integer == 1)
	case zapcore.Int8Type, zapcore.Int16Type, zapcore.Int32Type, zapcore.Int64Type:
		line.AppendInt(f.Integer)
	case zapcore.Uint8Type, zapcore.Uint16Type, zapcore.Uint32Type, zapcore.Uint64Type:
		line.AppendUint(uint64(f.Integer))
	case zapcore.DurationType:
		line.AppendString(time.Duration(f.Integer).String())
	default:
		fmt.Fprintf(line, "%v", f.Interface)
	}
}

// AddString buffers a With-attached string field for EncodeEntry.
func (enc *consoleEncoder) AddString(key, value string) {
	enc.attached = append(enc.attached, zapcore.Field{
		Key:    key,
		Type:   zapcore.StringType,
		String: value,
	})
}

// The remaining Add* members satisfy zapcore.Encoder; per-entry fields reach
// EncodeEntry untouched and non-string With context is not rendered on the
// console, so they are no-ops.

func (enc *consoleEncoder) OpenNamespace(string)                               {}
func (enc *consoleEncoder) AddArray(string, zapcore.ArrayMarshaler) error      { return nil }
func (enc *consoleEncoder) AddObject(string, zapcore.ObjectMarshaler) error    { return nil }
func (enc *consoleEncoder) AddBinary(string, []byte)                           {}
func (enc *consoleEncoder) AddByteString(string, []byte)                       {}
func (enc *consoleEncoder) AddBool(string, bool)                               {}
func (enc *consoleEncoder) AddComplex128(string, complex128)                   {}
func (enc *consoleEncoder) AddComplex64(string, complex64)                     {}
func (enc *consoleEncoder) AddDuration(string, time.Duration)                  {}
func (enc *consoleEncoder) AddFloat64(string, float64)                         {}
func (enc *consoleEncoder) AddFloat32(string, float32)                         {}
func (enc *consoleEncoder) AddInt(string, int)                                 {}
func (enc *consoleEncoder) AddInt64(string, int64)                             {}
func (enc *consoleEncoder) AddInt32(string, int32)                             {}
func (enc *consoleEncoder) AddInt16(string, int16)                             {}
func (enc *consoleEncoder) AddInt8(string, int8)                               {}
func (enc *consoleEncoder) AddTime(string, time.Time)                          {}
func (enc *consoleEncoder) AddUint(string, uint)                               {}
func (enc *consoleEncoder) AddUint64(string, uint64)                           {}
func (enc *consoleEncoder) AddUint32(string, uint32)                           {}
func (enc *consoleEncoder) AddUint16(string, uint16)                           {}
func (enc *consoleEncoder) AddUint8(string, uint8)                             {}
func (enc *consoleEncoder) AddUintptr(string, uintptr)                         {}
func (enc *consoleEncoder) AddReflected(string, interface{}) error             { return nil }
