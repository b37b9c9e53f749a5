package chat

import (
	"sync"
	"time"
)

// keepAlive emits a liveness frame on a fixed interval while the session is
// open. It is started when the connection opens and must be stopped on every
// path that leaves the connected state, so a dead or recreated session never
// receives stray pings.
type keepAlive struct {
	stop     chan struct{}
	stopOnce sync.Once
}

// startKeepAlive begins ticking. send is invoked once per interval until Stop.
func startKeepAlive(interval time.Duration, send func()) *keepAlive {
	k := &keepAlive{stop: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-k.stop:
				return
			case <-ticker.C:
				send()
			}
		}
	}()

	return k
}

// Stop halts the ticker. Safe to call more than once.
func (k *keepAlive) Stop() {
	k.stopOnce.Do(func() {
		close(k.stop)
	})
}
