package app

import (
	"context"
	"fmt"

	"github.com/rikkicom/call2fa-go/internal/callback"
	"github.com/rikkicom/call2fa-go/internal/config"
	"github.com/rikkicom/call2fa-go/internal/logger"
	"github.com/rikkicom/call2fa-go/internal/storage"
	"github.com/rikkicom/call2fa-go/pkg/sinks"
)

// Listener is the runtime behind cmd/callbackd: it serves the callback
// endpoint, deduplicates deliveries and fans events out to sinks.
type Listener struct {
	cfg    *config.Config
	log    logger.Logger
	store  storage.Store
	fanout *sinks.Fanout
	server *callback.Server
}

// NewListener builds the listener runtime from config files.
func NewListener(ctx context.Context, cfg *config.Config, log logger.Logger) (*Listener, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sinkReg, err := sinks.LoadRegistry(cfg.SinksFile)
	if err != nil {
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}

	enabled := sinkReg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no sinks configured")
	}

	built, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}
	fanout := sinks.NewFanout(built)

	sinkSummaries := make([]map[string]string, 0, len(enabled))
	for _, sinkCfg := range enabled {
		sinkSummaries = append(sinkSummaries, map[string]string{
			"id":   sinkCfg.ID,
			"type": sinkCfg.Type,
		})
	}
	log.InfoObj("sinks registry loaded", "sinks_meta", map[string]any{
		"count": len(sinkSummaries),
		"sinks": sinkSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		DeliveryTTL:     cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"delivery_ttl_seconds":     int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	handler := callback.NewHandler(store, fanout, log)
	server := callback.NewServer(cfg, handler)

	return &Listener{
		cfg:    cfg,
		log:    log,
		store:  store,
		fanout: fanout,
		server: server,
	}, nil
}

// Run serves the callback endpoint until the context is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	if l == nil || l.server == nil {
		return fmt.Errorf("listener is not initialized")
	}
	defer l.closeStore()

	l.log.InfoObj("callback listener starting", "listener_state", map[string]any{
		"port":        l.cfg.ListenPort,
		"sinks_count": l.fanout.Size(),
	})

	return l.server.Start(ctx)
}

// closeStore safely closes the storage backend, logging any errors encountered.
func (l *Listener) closeStore() {
	if l == nil || l.store == nil {
		return
	}
	if err := l.store.Close(); err != nil {
		l.log.ErrorObj("storage close failed", "error", err.Error())
	}
}
