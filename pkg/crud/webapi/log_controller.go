package webapi

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mccrud/pkg/clog"
	"github.com/materials-commons/mccrud/pkg/config"
	"github.com/pkg/errors"
)

// LogController changes the level and output of the logging contexts at
// runtime. File outputs must live in logDir, without one only stdout and
// stderr are accepted.
type LogController struct {
	mu      sync.Mutex
	outputs map[string]string
	logDir  string
}

type logState struct {
	Levels  []clog.ContextLevel `json:"levels"`
	Outputs map[string]string   `json:"outputs"`
}

// NewLogController creates a new LogController
func NewLogController(logDir string) *LogController {
	if logDir != "" {
		if abs, err := filepath.Abs(logDir); err == nil {
			logDir = abs
		}
	}

	return &LogController{
		outputs: map[string]string{clog.GlobalLoggerCtx: "stdout"},
		logDir:  logDir,
	}
}

func (c *LogController) ShowCurrentLogging(ctx echo.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ctx.JSON(http.StatusOK, c.state())
}

func (c *LogController) SetLogging(ctx echo.Context) error {
	var req struct {
		Ctx       string `json:"ctx"`
		LogLevel  string `json:"log_level"`
		LogOutput string `json:"log_output"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if req.Ctx == "" {
		req.Ctx = clog.GlobalLoggerCtx
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	oldLevel := clog.Level(req.Ctx)
	if req.LogLevel != "" {
		if err := c.setLoggingLevel(req.Ctx, req.LogLevel); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	if req.LogOutput != "" {
		if err := c.setLoggingOutput(req.Ctx, req.LogOutput); err != nil {
			// Reset logging level to original level since we couldn't perform
			// both setting the level and the output.
			clog.SetLevel(req.Ctx, oldLevel)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return ctx.JSON(http.StatusOK, c.state())
}

func (c *LogController) setLoggingLevel(logCtx, logLevel string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return errors.Wrapf(err, "Invalid log level %s", logLevel)
	}

	clog.SetLevel(logCtx, level)

	return nil
}

func (c *LogController) setLoggingOutput(logCtx, logOutput string) error {
	var w io.WriteCloser
	switch logOutput {
	case "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		path, err := c.logFile(logOutput)
		if err != nil {
			return err
		}

		// A file was specified, verify that we can write to it.
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return errors.Wrapf(err, "Failed to open LogOutput %s", logOutput)
		}
		w = f
	}

	if err := clog.SetOutput(logCtx, w); err != nil {
		if w != os.Stdout && w != os.Stderr {
			_ = w.Close()
		}
		return err
	}

	c.outputs[logCtx] = logOutput

	return nil
}

// logFile resolves logOutput, relative paths are taken from logDir. The
// result must be a file inside logDir.
func (c *LogController) logFile(logOutput string) (string, error) {
	if c.logDir == "" {
		return "", errors.Errorf("LogOutput %s not allowed, file outputs need %s", logOutput, config.KeyCrudLogDir)
	}

	path := logOutput
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.logDir, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(c.logDir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("LogOutput %s is outside of %s", logOutput, c.logDir)
	}

	return path, nil
}

func (c *LogController) state() logState {
	outputs := make(map[string]string)
	for _, level := range clog.Levels() {
		outputs[level.Ctx] = "stdout"
		if output, ok := c.outputs[level.Ctx]; ok {
			outputs[level.Ctx] = output
		}
	}

	return logState{Levels: clog.Levels(), Outputs: outputs}
}
