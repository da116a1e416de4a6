// Copyright 2016 NDP Systèmes. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hexya-addons/boardresolutions/src/tools/exceptions"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// log is the base logger of the addon
var log = &zapLogger{}

// A Logger writes logs to a handler
type Logger interface {
	// Panic logs a error level message then panics
	Panic(msg string, ctx ...interface{})
	// Error logs an error level message
	Error(msg string, ctx ...interface{})
	// Warn logs a warning level message
	Warn(msg string, ctx ...interface{})
	// Info logs an information level message
	Info(msg string, ctx ...interface{})
	// Debug logs a debug level message. This may be very verbose
	Debug(msg string, ctx ...interface{})
	// New returns a child logger with the given context
	New(ctx ...interface{}) Logger
	// Sync the logger cache
	Sync() error
}

// zapLogger is an implementation of logger using Uber's zap library.
//
// Child loggers are created before Initialize is called (they are package
// level variables), so the zap backend of a child is only resolved on its
// first use.
type zapLogger struct {
	sync.Mutex
	zap    *zap.SugaredLogger
	ctx    []interface{}
	parent *zapLogger
}

// Panic logs a error level message then panics
func (l *zapLogger) Panic(msg string, ctx ...interface{}) {
	if z := l.backend(); z != nil {
		z.Errorw(msg, ctx...)
	}
	panicData := msg + "\n"
	for i := 0; i+1 < len(ctx); i += 2 {
		panicData += fmt.Sprintf("\t%v : %v\n", ctx[i], ctx[i+1])
	}
	panic(panicData)
}

// Error logs an error level message
func (l *zapLogger) Error(msg string, ctx ...interface{}) {
	if z := l.backend(); z != nil {
		z.Errorw(msg, ctx...)
	}
}

// Warn logs a warning level message
func (l *zapLogger) Warn(msg string, ctx ...interface{}) {
	if z := l.backend(); z != nil {
		z.Warnw(msg, ctx...)
	}
}

// Info logs an information level message
func (l *zapLogger) Info(msg string, ctx ...interface{}) {
	if z := l.backend(); z != nil {
		z.Infow(msg, ctx...)
	}
}

// Debug logs a debug level message. This may be very verbose
func (l *zapLogger) Debug(msg string, ctx ...interface{}) {
	if z := l.backend(); z != nil {
		z.Debugw(msg, ctx...)
	}
}

// Sync the logger cache
func (l *zapLogger) Sync() error {
	z := l.backend()
	if z == nil {
		return errors.New("syncing a non-initialized logger")
	}
	return z.Sync()
}

// New returns a child logger with the given context
func (l *zapLogger) New(ctx ...interface{}) Logger {
	return &zapLogger{
		ctx:    ctx,
		parent: l,
	}
}

// backend returns the zap logger to write to, deriving it from the
// closest initialized ancestor. It returns nil if the root logger has
// not been initialized yet.
func (l *zapLogger) backend() *zap.SugaredLogger {
	l.Lock()
	defer l.Unlock()
	if l.zap != nil {
		return l.zap
	}
	if l.parent == nil {
		return nil
	}
	pz := l.parent.backend()
	if pz == nil {
		return nil
	}
	l.zap = pz.With(l.ctx...)
	return l.zap
}

// Initialize starts the base logger from the viper configuration keys
// LogLevel, LogStdout, LogFile and Debug.
func Initialize() {
	logConfig := zap.NewProductionConfig()
	if viper.GetBool("Debug") {
		logConfig = zap.NewDevelopmentConfig()
	}
	logConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if lvl := viper.GetString("LogLevel"); lvl != "" {
		if err := logConfig.Level.UnmarshalText([]byte(lvl)); err != nil {
			fmt.Fprintf(os.Stderr, "invalid log level %q, using info: %s\n", lvl, err)
		}
	}

	var outputPaths []string
	if viper.GetBool("LogStdout") {
		outputPaths = append(outputPaths, "stdout")
	}
	if path := viper.GetString("LogFile"); path != "" {
		outputPaths = append(outputPaths, path)
	}
	logConfig.OutputPaths = outputPaths

	plainLog, err := logConfig.Build()
	if err != nil {
		panic(err)
	}
	log.Lock()
	log.zap = plainLog.Sugar()
	log.Unlock()

	log.Info("Board resolutions starting...")
}

// GetLogger returns a context logger for the given module
func GetLogger(moduleName string) Logger {
	return log.New("module", moduleName)
}

// LogPanicData logs the panic data with stacktrace and returns a
// UserError with the panic message. It is meant to be called from
// a deferred recover.
func LogPanicData(panicData interface{}) error {
	msg := fmt.Sprintf("%v", panicData)
	stackTrace := debug.Stack()
	log.Error("Board resolutions panicked", "msg", msg, "stack", string(stackTrace))
	return exceptions.UserError{
		Message: msg,
		Debug:   string(stackTrace),
	}
}

// LogForGin returns the gin middleware logging board API requests with
// logger. Failed requests are logged at error level, client errors at
// warning level and the rest at info level.
func LogForGin(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		reqLogger := logger.New(
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"ip", c.ClientIP(),
			"latency", time.Since(start),
		)
		switch {
		case len(c.Errors) > 0:
			reqLogger.Error("Request failed", "errors", c.Errors.String())
		case status >= http.StatusInternalServerError:
			reqLogger.Error("Request failed")
		case status >= http.StatusBadRequest:
			reqLogger.Warn("Request rejected")
		default:
			reqLogger.Info("Request served")
		}
	}
}
