package server

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"

	"toolkit-keeper/internal/logger"
	"toolkit-keeper/internal/utils"
)

// ListenAddr is one endpoint the control API is served on.
type ListenAddr struct {
	Network string
	Address string
}

func (a ListenAddr) String() string {
	return a.Network + "://" + a.Address
}

/**
 * Test if the system supports Unix socket network type
 * @returns {bool} Returns true if Unix socket is supported, false otherwise
 * @description
 * - Always true outside windows
 * - On windows a throwaway socket in the temp dir is created and removed
 */
func IsUnixSocketSupported() bool {
	if runtime.GOOS != "windows" {
		return true
	}
	probe := filepath.Join(os.TempDir(), fmt.Sprintf("toolkit-keeper-%d.sock", os.Getpid()))
	os.Remove(probe)
	l, err := net.Listen("unix", probe)
	if err != nil {
		return false
	}
	l.Close()
	os.Remove(probe)
	return true
}

/**
 * Open the control API listeners
 * @param {[]ListenAddr} addrs - Endpoints to listen on
 * @returns {[]net.Listener} Listeners that could be opened
 * @returns {error} Last failure, nil if every endpoint is listening
 * @description
 * - A failing endpoint is logged and skipped; the others are still opened
 * - A unix socket still served by another daemon is left alone, a stale file is replaced
 * - Socket files are restricted to the current user
 */
func CreateListeners(addrs []ListenAddr) ([]net.Listener, error) {
	var listeners []net.Listener
	var lastErr error
	for _, addr := range addrs {
		l, err := listen(addr)
		if err != nil {
			logger.Errorf("Skip listener %s: %v", addr, err)
			lastErr = err
			continue
		}
		listeners = append(listeners, l)
	}
	return listeners, lastErr
}

func listen(addr ListenAddr) (net.Listener, error) {
	if addr.Network != "unix" {
		return net.Listen(addr.Network, addr.Address)
	}
	if utils.AddressInUse(addr.Network, addr.Address) {
		return nil, fmt.Errorf("socket %s is served by another process", addr.Address)
	}
	if err := os.Remove(addr.Address); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}
	l, err := net.Listen(addr.Network, addr.Address)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(addr.Address, 0o600); err != nil {
		logger.Warnf("Failed to restrict socket %s: %v", addr.Address, err)
	}
	return l, nil
}
