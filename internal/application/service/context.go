package service

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/artsapp/builder/internal/domain/models"
	"github.com/artsapp/builder/pkg/constants"
)

// WithAppState attaches the session's application state to ctx
func WithAppState(ctx context.Context, state models.AppState) context.Context {
	return context.WithValue(ctx, constants.ContextKeyAppState, state)
}

// AppStateFrom returns the application state of ctx, or a signed-out state in
// the default language.
func AppStateFrom(ctx context.Context) models.AppState {
	if state, ok := ctx.Value(constants.ContextKeyAppState).(models.AppState); ok {
		return state
	}
	return models.NewAppState(constants.DefaultLanguage)
}

func actorID(ctx context.Context) string {
	if u := AppStateFrom(ctx).User(); u != nil {
		return u.ID
	}
	return "anonymous"
}

func traceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
