package http

import (
	"log/slog"
	"sync"

	"github.com/aretw0/pagestate/internal/logging"
)

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // MachineID -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logging.NewNop(),
	}
}

// Subscribe registers a buffered channel for machineID.
// The returned function unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(machineID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[machineID]; !ok {
		sm.subscribers[machineID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[machineID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[machineID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, machineID)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of machineID without blocking.
func (sm *StreamManager) Broadcast(machineID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.logger.Debug("broadcasting", "machine_id", machineID, "payload_size", len(msg))

	for ch := range sm.subscribers[machineID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE client buffer full, dropping message", "machine_id", machineID)
		}
	}
}

// Subscribers returns the number of open subscriptions for machineID.
func (sm *StreamManager) Subscribers(machineID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[machineID])
}
