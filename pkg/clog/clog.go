package clog

import (
	"io"
	"sort"
	"sync"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

// ContextLogger keeps a global logger plus loggers for named contexts. The
// crud service uses one context per entity resource.
type ContextLogger struct {
	GlobalLogger   *log.Logger
	ContextLoggers sync.Map
}

const GlobalLoggerCtx = "global"

func NewContextLogger(globalLoggerWriter io.WriteCloser) *ContextLogger {
	return &ContextLogger{
		GlobalLogger: &log.Logger{
			Handler: NewHandler(globalLoggerWriter),
			Level:   log.InfoLevel,
		},
	}
}

func (l *ContextLogger) AddLoggingContext(ctx string, w io.WriteCloser) {
	logger := &log.Logger{
		Handler: NewHandler(w),
		Level:   l.GlobalLogger.Level,
	}
	if old, loaded := l.ContextLoggers.Swap(ctx, logger); loaded {
		if handler := loggerInterfaceToHandler(old); handler != nil {
			handler.Close()
		}
	}
}

// EnsureLoggingContext adds ctx writing to w unless it already exists.
func (l *ContextLogger) EnsureLoggingContext(ctx string, w io.WriteCloser) {
	if _, ok := l.ContextLoggers.Load(ctx); ok {
		return
	}

	l.ContextLoggers.LoadOrStore(ctx, &log.Logger{
		Handler: NewHandler(w),
		Level:   l.GlobalLogger.Level,
	})
}

func (l *ContextLogger) RemoveLoggingContext(ctx string) {
	logger, ok := l.ContextLoggers.LoadAndDelete(ctx)
	if !ok {
		return
	}

	if handler := loggerInterfaceToHandler(logger); handler != nil {
		handler.Close()
	}
}

func (l *ContextLogger) SetLevel(ctx string, level log.Level) {
	switch ctx {
	case GlobalLoggerCtx:
		l.GlobalLogger.Level = level
	default:
		clogger := l.getContextLogger(ctx)
		if clogger != nil {
			clogger.Level = level
		}
	}
}

func (l *ContextLogger) SetGlobalLoggerLevel(level log.Level) {
	l.SetLevel(GlobalLoggerCtx, level)
}

func (l *ContextLogger) SetLevelFromString(ctx, s string) error {
	level, err := log.ParseLevel(s)
	if err != nil {
		return err
	}

	l.SetLevel(ctx, level)

	return nil
}

func (l *ContextLogger) SetGlobalLoggerLevelFromString(s string) error {
	return l.SetLevelFromString(GlobalLoggerCtx, s)
}

func (l *ContextLogger) SetOutput(ctx string, w io.WriteCloser) error {
	handler := l.getContextLoggerHandler(ctx)
	if handler == nil {
		return errors.Errorf("no such context %s", ctx)
	}

	handler.SetOutput(w)
	return nil
}

func (l *ContextLogger) SetGlobalOutput(w io.WriteCloser) error {
	return l.SetOutput(GlobalLoggerCtx, w)
}

// Level of ctx. Unknown contexts log with the global level.
func (l *ContextLogger) Level(ctx string) log.Level {
	if logger := l.getContextLogger(ctx); logger != nil {
		return logger.Level
	}

	return l.GlobalLogger.Level
}

// ContextLevel is a logging context and its level.
type ContextLevel struct {
	Ctx   string `json:"ctx"`
	Level string `json:"level"`
}

// Levels lists the global context followed by the named contexts in order.
func (l *ContextLogger) Levels() []ContextLevel {
	var levels []ContextLevel
	l.ContextLoggers.Range(func(key, value any) bool {
		if logger := castToLogger(value); logger != nil {
			levels = append(levels, ContextLevel{Ctx: key.(string), Level: logger.Level.String()})
		}
		return true
	})

	sort.Slice(levels, func(i, j int) bool { return levels[i].Ctx < levels[j].Ctx })

	return append([]ContextLevel{{Ctx: GlobalLoggerCtx, Level: l.GlobalLogger.Level.String()}}, levels...)
}

func (l *ContextLogger) UsingCtx(ctx string) *log.Entry {
	logger := l.getContextLogger(ctx)
	if logger == nil {
		return l.GlobalLogger.WithField("ctx", ctx)
	}
	return logger.WithField("ctx", ctx)
}

func (l *ContextLogger) Global() *log.Entry {
	return l.GlobalLogger.WithField("ctx", GlobalLoggerCtx)
}

func (l *ContextLogger) getContextLogger(ctx string) *log.Logger {
	logger, ok := l.ContextLoggers.Load(ctx)
	if !ok {
		return nil
	}

	return castToLogger(logger)
}

func castToLogger(logger any) *log.Logger {
	clogger, ok := logger.(*log.Logger)
	if !ok {
		return nil
	}

	return clogger
}

func loggerInterfaceToHandler(logger any) *Handler {
	clogger := castToLogger(logger)
	if clogger == nil {
		return nil
	}

	h, ok := clogger.Handler.(*Handler)
	if !ok {
		return nil
	}

	return h
}

func (l *ContextLogger) getContextLoggerHandler(ctx string) *Handler {
	if ctx == GlobalLoggerCtx {
		h, _ := l.GlobalLogger.Handler.(*Handler)
		return h
	}

	clogger := l.getContextLogger(ctx)
	if clogger == nil {
		return nil
	}

	return loggerInterfaceToHandler(clogger)
}
