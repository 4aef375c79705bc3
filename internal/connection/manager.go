// Package connection owns the session's backend handle. Connect probes the
// configured server over each protocol in a fixed preference order and
// publishes the first backend that answers.
package connection

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/comfy-org/comfy-fs/internal/config"
	"github.com/comfy-org/comfy-fs/internal/remotefs"
)

type candidate struct {
	protocol string
	client   remotefs.Client
}

// Manager performs protocol fallback and hands out the shared capability
// handle. One Manager lives per process session.
type Manager struct {
	cfg *config.Config

	mu     sync.Mutex
	client remotefs.Client

	// candidates builds the ordered probe list; overridable in tests.
	candidates func(cfg *config.Config) []candidate
}

func NewManager(cfg *config.Config) *Manager {
	return &Manager{cfg: cfg, candidates: defaultCandidates}
}

// The probe order is fixed: SMB first, then FTP, then SFTP. The configured
// protocol preference does not change it.
func defaultCandidates(cfg *config.Config) []candidate {
	return []candidate{
		{"SMB", remotefs.NewSMBClient(cfg.ServerIP, cfg.Username, cfg.Password, remotefs.DefaultShare)},
		{"FTP", remotefs.NewFTPClient(net.JoinHostPort(cfg.ServerIP, "21"), cfg.Username, cfg.Password)},
		{"SFTP", remotefs.NewSFTPClient(net.JoinHostPort(cfg.ServerIP, "22"), cfg.Username, cfg.Password)},
	}
}

// Connect returns the session handle, probing the server on first use.
// Without a password it fails before any network activity.
func (m *Manager) Connect(ctx context.Context) (remotefs.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		return m.client, nil
	}
	if m.cfg.Password == "" {
		return nil, fmt.Errorf("%w: password not set", remotefs.ErrNotConfigured)
	}

	var probeErrs *multierror.Error
	for _, cand := range m.candidates(m.cfg) {
		if err := cand.client.Connect(ctx); err != nil {
			slog.Warn("connection probe failed", "protocol", cand.protocol, "error", err)
			probeErrs = multierror.Append(probeErrs, fmt.Errorf("%s: %w", cand.protocol, err))
			continue
		}
		slog.Info("connected", "protocol", cand.protocol, "server", m.cfg.ServerIP)
		m.client = cand.client
		return m.client, nil
	}

	return nil, fmt.Errorf("failed to connect to %s over any protocol: %w", m.cfg.ServerIP, probeErrs.ErrorOrNil())
}

// Disconnect releases the session handle.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	return err
}
