package logger

import "context"

// Discard drops every entry. Tests and the CLI use it when output must stay clean.
type Discard struct{}

// NewNoopLogger returns a logger that discards everything
func NewNoopLogger() Logger { return Discard{} }

func (Discard) Debug(context.Context, string, ...Fields)        {}
func (Discard) Info(context.Context, string, ...Fields)         {}
func (Discard) Warn(context.Context, string, ...Fields)         {}
func (Discard) Error(context.Context, string, error, ...Fields) {}
func (Discard) Fatal(context.Context, string, error, ...Fields) {}
func (d Discard) WithFields(Fields) Logger                      { return d }
func (d Discard) WithComponent(string) Logger                   { return d }
