// Package netutil helps the daemon find a usable TCP bind address.
package netutil

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
)

// PickBindAddr returns the first address the daemon can listen on: the
// preferred address when free, then each fallback in order when
// autoFallback is set.
func PickBindAddr(preferred string, fallbacks []string, autoFallback bool) (string, error) {
	if preferred != "" {
		if addrAvailable(preferred) {
			return preferred, nil
		}
		if !autoFallback {
			return "", fmt.Errorf("netutil: bind address %s is in use", preferred)
		}
		slog.Warn("preferred bind address unavailable, trying fallbacks", "addr", preferred)
	}

	for _, addr := range fallbacks {
		if addrAvailable(addr) {
			return addr, nil
		}
	}

	return "", errors.New("netutil: no usable bind address")
}

// addrAvailable reports whether addr can be listened on right now.
func addrAvailable(addr string) bool {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return false
	}
	ln.Close()
	return true
}
