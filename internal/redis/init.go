package redis

import (
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// Map of named Redis clients
	clients = make(map[string]*redis.Client)

	// Mutex for thread-safe access to the clients map
	clientsMutex sync.RWMutex
)

// Options tunes a named client
type Options struct {
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxRetries   int
}

// DefaultOptions returns the options used by NewClient
func DefaultOptions() Options {
	return Options{
		PoolSize:     10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		MaxRetries:   1,
	}
}

// NewClient creates a client registered under name. With useExisting an
// already registered client of that name is returned instead.
func NewClient(name, address string, useExisting bool) *redis.Client {
	return NewClientWithOptions(name, address, useExisting, DefaultOptions())
}

// NewClientWithOptions is NewClient with explicit options
func NewClientWithOptions(name, address string, useExisting bool, opts Options) *redis.Client {
	if address == "" {
		address = "localhost:6379"
	}

	clientsMutex.Lock()
	defer clientsMutex.Unlock()

	if existing, ok := clients[name]; ok {
		if useExisting {
			return existing
		}
		existing.Close()
	}

	client := redis.NewClient(&redis.Options{
		Addr:            address,
		Password:        opts.Password,
		DB:              opts.DB,
		PoolSize:        opts.PoolSize,
		MinIdleConns:    1,
		ConnMaxIdleTime: 240 * time.Second,
		DialTimeout:     opts.DialTimeout,
		ReadTimeout:     opts.ReadTimeout,
		WriteTimeout:    opts.WriteTimeout,
		MaxRetries:      opts.MaxRetries,
	})

	clients[name] = client
	return client
}

// GetClient returns a Redis client by name, or nil when none is registered
func GetClient(name string) *redis.Client {
	clientsMutex.RLock()
	defer clientsMutex.RUnlock()
	return clients[name]
}

// Names lists the registered client names
func Names() []string {
	clientsMutex.RLock()
	defer clientsMutex.RUnlock()

	names := make([]string, 0, len(clients))
	for name := range clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes a specific Redis client by name
func Close(name string) {
	clientsMutex.Lock()
	defer clientsMutex.Unlock()

	if client, exists := clients[name]; exists {
		client.Close()
		delete(clients, name)
	}
}

// CloseAll closes all Redis clients
func CloseAll() {
	clientsMutex.Lock()
	defer clientsMutex.Unlock()

	for name, client := range clients {
		client.Close()
		delete(clients, name)
	}
}
