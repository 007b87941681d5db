package utils

import (
	"net"
	"time"
)

/**
 * Check whether something already accepts connections on an address
 * @param {string} network - "tcp" or "unix"
 * @param {string} address - host:port or socket path
 * @returns {bool} True if a dial succeeds
 * @description
 * - A stale unix socket file left by a crashed process is not in use
 */
func AddressInUse(network, address string) bool {
	conn, err := net.DialTimeout(network, address, time.Second)
	if err != nil {
		// 连接失败，说明地址可用
		return false
	}
	conn.Close()
	return true
}
