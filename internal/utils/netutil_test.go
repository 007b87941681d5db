package utils

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressInUseTCP(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	assert.True(t, AddressInUse("tcp", addr))

	l.Close()
	assert.False(t, AddressInUse("tcp", addr))
}

func TestAddressInUseStaleSocket(t *testing.T) {
	dir, err := os.MkdirTemp("", "sock")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "k.sock")

	l, err := net.Listen("unix", path)
	require.NoError(t, err)
	assert.True(t, AddressInUse("unix", path))

	l.(*net.UnixListener).SetUnlinkOnClose(false)
	l.Close()
	_, err = os.Stat(path)
	require.NoError(t, err)
	assert.False(t, AddressInUse("unix", path))
}
