package repository

import (
	"errors"
	"log"
	"sync/atomic"

	"gorm.io/gorm"
)

// ErrDegraded is returned by repositories once the gate has tripped; callers
// fall back to defaults instead of retrying the network.
var ErrDegraded = errors.New("remote store degraded")

// Gate is a one-way circuit breaker shared by all repositories. The first
// connection-class failure trips it for the remainder of the process
// lifetime; after that every remote call short-circuits. This trades sync
// (no more writes reach the database) for liveness (no more hanging calls).
type Gate struct {
	degraded atomic.Bool
}

func NewGate() *Gate {
	return &Gate{}
}

func (g *Gate) Degraded() bool {
	return g.degraded.Load()
}

// Observe records the outcome of a remote call. Connection-class errors trip
// the gate; not-found and constraint errors are normal outcomes and do not.
func (g *Gate) Observe(op string, err error) {
	if !connectionError(err) {
		return
	}
	if g.degraded.CompareAndSwap(false, true) {
		log.Printf("[db] %s failed, marking remote store degraded until restart: %v", op, err)
	}
}

func connectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return false
	}
	return true
}
