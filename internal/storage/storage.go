package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage tracks callback deliveries so re-delivered webhooks are
// dropped instead of fanned out twice.

// Store remembers delivery keys already processed by the listener.
type Store interface {
	Close() error
	SeenDelivery(key string) (bool, error)
	MarkDelivery(key string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	DeliveryTTL     time.Duration
	CleanupInterval time.Duration
}

const (
	defaultDeliveryTTL     = 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.DeliveryTTL <= 0 {
		opts.DeliveryTTL = defaultDeliveryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                      { return nil }
func (noopStore) SeenDelivery(string) (bool, error) { return false, nil }
func (noopStore) MarkDelivery(string) error         { return nil }
