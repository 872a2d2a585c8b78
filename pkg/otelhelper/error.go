package otelhelper

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrorTypeKey holds the Go type of the innermost wrapped error.
const ErrorTypeKey = "flowdesk.error.type"

// SetError marks the span as failed and records err along with an
// "error_occurred" event carrying attrs.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	attrs = append(attrs, attribute.String(ErrorTypeKey, rootType(err)))
	span.AddEvent("error_occurred", trace.WithAttributes(attrs...))
}

func rootType(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return fmt.Sprintf("%T", err)
		}

		err = next
	}
}
