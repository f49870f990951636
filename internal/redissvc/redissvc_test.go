package redissvc

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisService(t *testing.T) {
	mr := miniredis.RunT(t)

	svc, err := NewRedisService(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	defer svc.Close()

	assert.NoError(t, svc.Ping(context.Background()))
	assert.NotNil(t, svc.Rdb())

	mr.Close()
	assert.Error(t, svc.Ping(context.Background()))
}

func TestNewRedisService_Unreachable(t *testing.T) {
	_, err := NewRedisService(context.Background(), Options{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
