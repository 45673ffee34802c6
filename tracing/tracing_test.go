package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/brigade/model"
)

func TestTracingFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "span_test.txt")

	require.NoError(t, Init("brigade", "0.0.1", fname))

	ctx, span := StartSpan(context.Background(), "orchestrator.SubmitOrder", KindProducer)
	span.WithTask(model.NewTask(model.Regina, model.S, 1)).WithInt("worker", 1)
	_, child := StartSpan(ctx, "orchestrator.spawn", KindClient)
	EndSpan(child, errors.New("spawn failed"))
	EndSpan(span, nil)

	current, ok := SpanFromContext(ctx)
	assert.True(t, ok)
	assert.NotNil(t, current)
	_, ok = SpanFromContext(context.Background())
	assert.False(t, ok)

	require.NoError(t, Shutdown(context.Background()))
	data, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.Contains(t, string(data), "orchestrator.SubmitOrder")
	assert.Contains(t, string(data), "spawn failed")
	assert.Contains(t, string(data), "task.kind")
}

func TestNilSpan(t *testing.T) {
	var span *Span
	assert.NotPanics(t, func() {
		span.WithAttributes(map[string]string{"a": "b"}).WithInt("n", 1).WithTask(nil)
		EndSpan(span, errors.New("ignored"))
	})
}
