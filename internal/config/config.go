// Package config loads the service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

// Development defaults. The default backend signer address corresponds
// to the well-known development key used by the simulation, so a bare
// `go run` of server and simulation agree without any configuration.
const (
	defaultPort          = "8080"
	defaultDatabasePath  = "marketplace.db"
	defaultJWTSecret     = "marketplace-secret-key"
	defaultChainID       = 31337
	defaultEngineAddress = "0x00000000000000000000000000000000000AA001"
	defaultBackendSigner = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	defaultBeneficiary   = "0x00000000000000000000000000000000000Fee01"
)

type Config struct {
	Port         string
	DatabasePath string
	JWTSecret    string
	Env          string

	// ChainID and EngineAddress bind batch authorizations to this
	// deployment.
	ChainID       uint64
	EngineAddress common.Address

	// BackendSigner is the authority whose signature authorizes
	// batches; FeesBeneficiary seeds the registry on first start.
	BackendSigner   common.Address
	FeesBeneficiary common.Address
}

// Load reads configuration from the environment. A missing .env file
// is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", defaultPort),
		DatabasePath: getEnv("DATABASE_PATH", defaultDatabasePath),
		JWTSecret:    getEnv("JWT_SECRET", defaultJWTSecret),
		Env:          getEnv("ENV", "development"),
	}

	chainID, err := strconv.ParseUint(getEnv("CHAIN_ID", strconv.Itoa(defaultChainID)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse CHAIN_ID: %w", err)
	}
	cfg.ChainID = chainID

	for _, field := range []struct {
		key      string
		fallback string
		dst      *common.Address
	}{
		{"ENGINE_ADDRESS", defaultEngineAddress, &cfg.EngineAddress},
		{"BACKEND_SIGNER_ADDRESS", defaultBackendSigner, &cfg.BackendSigner},
		{"FEES_BENEFICIARY", defaultBeneficiary, &cfg.FeesBeneficiary},
	} {
		raw := getEnv(field.key, field.fallback)
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("%s must be a hex address, got %q", field.key, raw)
		}
		*field.dst = common.HexToAddress(raw)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return fallback
}
