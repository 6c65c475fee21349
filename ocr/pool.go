package ocr

import (
	"encoding/json"
	"sync"
	"time"

	"leadfilter/config"
	"leadfilter/logreport"
)

// PoolEntry tracks a provider and when it was last handed out.
type PoolEntry struct {
	sync.RWMutex
	Provider
	time.Time
}

// Pool caches providers keyed by their configuration. Entries idle for an
// hour are swept so a reconfigured guild gets a fresh client.
type Pool struct {
	sync.RWMutex
	pool map[string]*PoolEntry
}

// NewPool starts a provider pool and its sweeper.
func NewPool() *Pool {
	pool := &Pool{
		pool: make(map[string]*PoolEntry),
	}
	deleteTicker := time.NewTicker(time.Hour)
	go func() {
		for range deleteTicker.C {
			now := time.Now()
			pool.Lock()
			for key, value := range pool.pool {
				value.RLock()
				if value.Before(now) {
					delete(pool.pool, key)
				}
				value.RUnlock()
			}
			pool.Unlock()
		}
	}()
	return pool
}

// Connection returns a pooled provider for the configuration, building one
// on first use. Returns nil when OCR is disabled or misconfigured.
func (p *Pool) Connection(conf config.OCR) Provider {
	spec, err := json.Marshal(conf)
	if err != nil {
		logreport.Fatal(err)
	}
	p.RLock()
	entry := p.pool[string(spec)]
	p.RUnlock()
	if entry != nil {
		entry.Lock()
		defer entry.Unlock()
		entry.Time = time.Now().Add(time.Hour)
		return entry
	}

	provider, err := NewProvider(conf)
	if err != nil {
		logreport.Printf("%s %v", config.OCRPrefix, err)
		return nil
	}
	if provider == nil {
		return nil
	}
	p.Lock()
	defer p.Unlock()
	p.pool[string(spec)] = &PoolEntry{Provider: provider, Time: time.Now().Add(time.Hour)}
	return provider
}
