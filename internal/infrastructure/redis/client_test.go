package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), "redis://"+s.Addr()+"/2")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.Equal(t, 2, client.Options().DB)
	assert.Equal(t, "creditbook", client.Options().ClientName)
	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewClient_Errors(t *testing.T) {
	down := miniredis.RunT(t)
	downURL := "redis://" + down.Addr()
	down.Close()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	live := miniredis.RunT(t)

	tests := []struct {
		name    string
		ctx     context.Context
		url     string
		wantMsg string
	}{
		{"invalid url", context.Background(), "://bad-url", "parse redis URL"},
		{"server down", context.Background(), downURL, "ping redis"},
		{"cancelled context", cancelled, "redis://" + live.Addr(), "ping redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.ctx, tt.url)
			require.Error(t, err)
			assert.Nil(t, client)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
