package reqctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	_, ok := GetRequestID(context.Background())
	assert.False(t, ok)

	ctx := WithRequestID(context.Background(), "rid-1")
	id, ok := GetRequestID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "rid-1", id)
}

func TestAdmin(t *testing.T) {
	ctx := WithAdmin(context.Background(), "editor")
	sub, ok := GetAdmin(ctx)
	assert.True(t, ok)
	assert.Equal(t, "editor", sub)
}

func TestRole(t *testing.T) {
	_, ok := GetRole(context.Background())
	assert.False(t, ok)

	role, ok := GetRole(WithRole(context.Background(), "admin"))
	assert.True(t, ok)
	assert.Equal(t, "admin", role)
}
