// Package config persists the connection settings for the file-server
// client. The password is solicited at runtime and never written to disk.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/comfy-org/comfy-fs/internal/utils"
)

const (
	appDirName     = "comfy-fs"
	configFileName = "config.json"
)

// Protocol tags the user's preferred wire protocol. The connection manager
// currently probes in a fixed order regardless; the field is kept so existing
// config files round-trip.
type Protocol string

const (
	ProtocolFTP  Protocol = "Ftp"
	ProtocolSMB  Protocol = "Smb"
	ProtocolSFTP Protocol = "Sftp"
)

type Config struct {
	ServerIP        string   `json:"server_ip"`
	Username        string   `json:"username"`
	Password        string   `json:"-"`
	DefaultProtocol Protocol `json:"default_protocol"`
	Configured      bool     `json:"configured"`
}

func Default() *Config {
	return &Config{DefaultProtocol: ProtocolFTP}
}

// Path returns the per-user config file location.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

// Load reads the persisted configuration, falling back to defaults when no
// file exists yet.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

func (c *Config) SaveTo(path string) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// IsConfigured reports whether first-run setup has completed.
func (c *Config) IsConfigured() bool {
	return c.Configured && c.ServerIP != "" && c.Username != ""
}

// ParseProtocol resolves a user-supplied protocol name, case-insensitively.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(s) {
	case "ftp":
		return ProtocolFTP, nil
	case "smb":
		return ProtocolSMB, nil
	case "sftp":
		return ProtocolSFTP, nil
	}
	return "", fmt.Errorf("unknown protocol %q (want ftp, smb or sftp)", s)
}
