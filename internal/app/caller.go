package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rikkicom/call2fa-go/internal/config"
	"github.com/rikkicom/call2fa-go/internal/logger"
	"github.com/rikkicom/call2fa-go/pkg/call2fa"
)

// Caller is the one-shot runtime behind cmd/call2fa: it authenticates,
// places a single verification call and prints the result.
type Caller struct {
	cfg *config.Config
	log logger.Logger
}

// NewCaller builds a caller runtime from config.
func NewCaller(cfg *config.Config, log logger.Logger) (*Caller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if cfg.APILogin == "" || cfg.APIPassword == "" {
		return nil, fmt.Errorf("api_login and api_password must be configured")
	}
	if cfg.PhoneNumber == "" {
		return nil, fmt.Errorf("phone_number must be configured")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Caller{cfg: cfg, log: log}, nil
}

// Run places the call and writes the API response to stdout.
func (c *Caller) Run(ctx context.Context) error {
	client, err := call2fa.NewClient(ctx, c.cfg.APILogin, c.cfg.APIPassword,
		call2fa.WithBaseURI(c.cfg.APIBaseURI),
		call2fa.WithVersion(c.cfg.APIVersion),
		call2fa.WithTimeout(c.cfg.RequestTimeout),
		call2fa.WithLogger(c.log),
	)
	if err != nil {
		return fmt.Errorf("create call2fa client: %w", err)
	}

	result, err := client.Call(ctx, c.cfg.PhoneNumber, c.cfg.CallbackURL)
	if err != nil {
		return fmt.Errorf("place call: %w", err)
	}

	c.log.InfoObj("call placed", "call_result", map[string]any{
		"call_id":      result.CallID,
		"phone_number": c.cfg.PhoneNumber,
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
