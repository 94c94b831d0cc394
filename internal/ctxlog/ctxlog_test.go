package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	ctx = With(ctx, "file", "targets.yaml")
	FromContext(ctx).Info("Loaded.")

	assert.Contains(t, buf.String(), "file=targets.yaml")
	assert.Contains(t, buf.String(), "msg=Loaded.")
}
