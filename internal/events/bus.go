// Package events fans settlement records out to in-process observers
// and websocket clients.
package events

import (
	"sync"
	"time"
)

// SettlementEvent is the observable record emitted once per settled
// order.
type SettlementEvent struct {
	RecordID     string    `json:"record_id"`
	OrderHash    string    `json:"order_hash"`
	Owner        string    `json:"owner"`
	Counterparty string    `json:"counterparty"`
	Amount       uint64    `json:"amount"`
	OrderType    string    `json:"order_type"`
	Timestamp    time.Time `json:"timestamp"`
}

const subscriberBuffer = 64

// Bus is a non-blocking publish/subscribe fanout. A subscriber that
// falls more than subscriberBuffer events behind loses events rather
// than stalling settlement.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan SettlementEvent
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan SettlementEvent)}
}

// Subscribe registers a new observer and returns its id and channel.
func (b *Bus) Subscribe() (int, <-chan SettlementEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan SettlementEvent, subscriberBuffer)
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe removes an observer and closes its channel.
func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		close(ch)
		delete(b.subs, id)
	}
}

// Publish delivers the event to every subscriber without blocking.
func (b *Bus) Publish(evt SettlementEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
