package server

import (
	"errors"
	"log/slog"
	"time"

	"github.com/domeprotocol/dome-go/dome"
	"github.com/domeprotocol/dome-go/indexer"
)

const (
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
)

// VersionInfo is the payload served at /version.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Config wires the read API server.
type Config struct {
	Logger     *slog.Logger
	ListenAddr string
	Registry   *dome.Registry
	Indexer    *indexer.Indexer
	Journal    *indexer.Journal

	VersionInfo       VersionInfo
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Validate defaults optional fields and checks required collaborators.
func (c *Config) Validate() error {
	if c.Logger == nil {
		return errors.New("server: logger is required")
	}
	if c.ListenAddr == "" {
		return errors.New("server: listen address is required")
	}
	if c.Registry == nil {
		return errors.New("server: registry is required")
	}
	if c.Indexer == nil {
		return errors.New("server: indexer is required")
	}
	if c.Journal == nil {
		return errors.New("server: journal is required")
	}
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	return nil
}
