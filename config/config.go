package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Page identifies a navigable screen
type Page int

const (
	PageListing Page = iota
	PageDetail
	PageCreate
	PageSettings
)

// Config represents the application configuration
type Config struct {
	RPCURLs         []RPCUrl `json:"rpc_urls"`
	ContractAddress string   `json:"contract_address"`
	KeystoreDir     string   `json:"keystore_dir"`
	Logger          bool     `json:"logger"`
}

// RPCUrl represents an RPC endpoint
type RPCUrl struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// envOverrides are applied on top of the config file when set.
type envOverrides struct {
	RPCURL          string `env:"ETH_RPC_URL"`
	ContractAddress string `env:"DONATION_CONTRACT_ADDRESS"`
	KeystoreDir     string `env:"DONATION_KEYSTORE_DIR"`
}

// Load reads the config from the specified path
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}

	return cfg
}

// Save writes the config to the specified path
func Save(path string, cfg Config) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0644)
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		RPCURLs: []RPCUrl{
			{
				Name:   "Base Sepolia",
				URL:    "https://base-sepolia-rpc.publicnode.com",
				Active: true,
			},
		},
		ContractAddress: "0xbb5C516D32c4B4a7df2D0B8FE209df80E8D1db0e",
		KeystoreDir:     filepath.Join(homeDir, ".charm-donate", "keystore"),
		Logger:          false,
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg := DefaultConfig()
		Save(path, cfg)
		return cfg
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}

// ApplyEnv overlays environment overrides on a loaded config. A set
// ETH_RPC_URL replaces the active endpoint.
func ApplyEnv(cfg Config) Config {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return cfg
	}

	if overrides.RPCURL != "" {
		replaced := false
		for i := range cfg.RPCURLs {
			if cfg.RPCURLs[i].Active {
				cfg.RPCURLs[i].URL = overrides.RPCURL
				replaced = true
				break
			}
		}
		if !replaced {
			cfg.RPCURLs = append(cfg.RPCURLs, RPCUrl{Name: "Env", URL: overrides.RPCURL, Active: true})
		}
	}
	if overrides.ContractAddress != "" {
		cfg.ContractAddress = overrides.ContractAddress
	}
	if overrides.KeystoreDir != "" {
		cfg.KeystoreDir = overrides.KeystoreDir
	}

	return cfg
}

// ActiveRPC returns the active endpoint URL, or empty when none is set.
func (c Config) ActiveRPC() string {
	for _, r := range c.RPCURLs {
		if r.Active {
			return r.URL
		}
	}
	if len(c.RPCURLs) > 0 {
		return c.RPCURLs[0].URL
	}
	return ""
}
