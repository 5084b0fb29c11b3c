package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoop_SafeToUse(t *testing.T) {
	o := NewNoop()
	ctx, span := o.StartSpan(context.Background(), "classify")
	span.End()

	o.RecordRun(ctx, "wallet_overview", "answered", 10*time.Millisecond)
	o.Shutdown()
}

func TestNilObservability_StartSpan(t *testing.T) {
	var o *Observability
	_, span := o.StartSpan(context.Background(), "fetch")
	assert.NotNil(t, span)
	span.End()
	o.RecordRun(context.Background(), "x", "y", time.Millisecond)
}
