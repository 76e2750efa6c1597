// Package platform holds OS-level helpers.
package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

// InstanceGuard holds the single-instance lock: a loopback listener on a port
// derived from the application name. The same listener can carry the control
// API, so a second process finds the first one at InstanceAddress.
type InstanceGuard struct {
	listener net.Listener
}

// InstanceAddress returns the loopback address the lock for appName binds.
func InstanceAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

// AcquireSingleInstance binds the lock address. It fails with
// ErrAlreadyRunning when the port is taken.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	listener, err := net.Listen("tcp", InstanceAddress(appName))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAlreadyRunning, err)
	}
	return &InstanceGuard{listener: listener}, nil
}

// Listener returns the bound listener. Closing it releases the lock.
func (guard *InstanceGuard) Listener() net.Listener {
	return guard.listener
}

// Release frees the lock. Releasing twice, or after the listener was closed
// by a server, is not an error.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	if err := guard.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("release instance lock: %w", err)
	}
	return nil
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil || guard.listener == nil {
		return ""
	}
	return guard.listener.Addr().String()
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
