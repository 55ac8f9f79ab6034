package logger

import "github.com/iaramer/dobbi/internal/ports"

type nopLogger struct{}

// Nop returns a logger that discards everything. Used as a fallback when
// the default logger cannot be constructed.
func Nop() ports.Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Close() error                 { return nil }
