// Package platform holds host-level glue that is not part of the timer
// core. Currently that is the single-instance lock used by the
// interactive runner so two terminals cannot drive concurrent runs.
package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAnotherInstance indicates another process already holds the lock.
var ErrAnotherInstance = errors.New("another instance is running")

// RunLock holds the single-instance lock for an interactive run. The
// lock is a deterministic localhost port derived from the app name:
// binding it succeeds for exactly one process and is released by the
// OS even if the process dies.
type RunLock struct {
	listener net.Listener
}

// AcquireSingleInstance takes the lock for the given app name.
func AcquireSingleInstance(appName string) (*RunLock, error) {
	address := fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, ErrAnotherInstance
	}
	return &RunLock{listener: listener}, nil
}

// Release frees the lock. Safe on a nil lock.
func (lock *RunLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	return lock.listener.Close()
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	return minPort + int(hash.Sum32()%uint32(maxPort-minPort+1))
}
