package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/clickup-mcp/internal/clickup"
	"github.com/teemow/clickup-mcp/internal/instrumentation"
	"github.com/teemow/clickup-mcp/internal/members"
)

func TestNewServerContext(t *testing.T) {
	client, err := clickup.NewClient("pk_test")
	require.NoError(t, err)

	sc := NewServerContext(context.Background(), client, nil, members.Options{})

	assert.Same(t, client, sc.Client())
	assert.NotNil(t, sc.Members())
	assert.NotNil(t, sc.Logger())
	assert.True(t, sc.ReadOnly())
	assert.Nil(t, sc.Metrics())
	assert.Nil(t, sc.AuditLogger())
}

func TestServerContext_WithoutClient(t *testing.T) {
	sc := NewServerContext(context.Background(), nil, nil, members.Options{})

	assert.Nil(t, sc.Client())
	assert.Nil(t, sc.Members())
}

func TestServerContext_Setters(t *testing.T) {
	sc := NewServerContext(context.Background(), nil, nil, members.Options{})

	m := &instrumentation.Metrics{}
	al := instrumentation.NewAuditLoggerWithConfig(nil, instrumentation.AuditLoggingConfig{Enabled: true})

	sc.SetMetrics(m)
	sc.SetAuditLogger(al)
	sc.SetReadOnly(false)

	assert.Same(t, m, sc.Metrics())
	assert.Same(t, al, sc.AuditLogger())
	assert.False(t, sc.ReadOnly())
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := NewServerContext(context.Background(), nil, nil, members.Options{})

	assert.False(t, sc.IsShutdown())
	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.ErrorIs(t, sc.Context().Err(), context.Canceled)

	// Second shutdown is a no-op
	assert.NoError(t, sc.Shutdown())
}
