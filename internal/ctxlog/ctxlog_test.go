package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("returns the embedded logger", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		ctx := WithLogger(context.Background(), logger)
		assert.Same(t, logger, FromContext(ctx))
	})

	t.Run("falls back to the default logger", func(t *testing.T) {
		assert.Same(t, slog.Default(), FromContext(context.Background()))
	})
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := With(WithLogger(context.Background(), logger), "file", "cmt_bgcsoil.txt")

	FromContext(ctx).Info("parsed")
	require.Contains(t, buf.String(), "file=cmt_bgcsoil.txt")
}
