package app

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/verdigris-systems/ledgerd/pkg/cryptox"
	"github.com/verdigris-systems/ledgerd/pkg/jwtx"
)

// InitSigningKey loads the service's long-term Ed25519 signing key,
// generating and persisting a fresh one when the file does not exist yet.
// The key signs response envelopes, chain entries and counter-signatures,
// so losing it breaks verification of everything published so far.
func InitSigningKey(cfg Config, logger *slog.Logger) (ed25519.PrivateKey, error) {
	key, err := cryptox.LoadOrCreateEd25519Key(cfg.SigningKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signing key: %w", err)
	}

	logger.Info("signing key loaded",
		"path", cfg.SigningKeyFile,
		"public_key", cryptox.EncodePublicKey(key.Public().(ed25519.PublicKey)),
	)
	return key, nil
}

// InitVerifier builds the bearer token verifier from the upstream auth
// service's published JWKS. A missing JWKS file is tolerated: the service
// still serves its public endpoints, but every authenticated call fails
// until keys are provisioned.
func InitVerifier(cfg Config, logger *slog.Logger) (jwtx.Verifier, error) {
	keys := jwtx.NewKeySet()

	raw, err := os.ReadFile(cfg.TrustedJWKSFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Warn("trusted JWKS file not found; authenticated endpoints will reject all callers",
			"path", cfg.TrustedJWKSFile)
	case err != nil:
		return nil, fmt.Errorf("failed to read trusted JWKS: %w", err)
	default:
		var jwks jwtx.JWKS
		if err := json.Unmarshal(raw, &jwks); err != nil {
			return nil, fmt.Errorf("failed to parse trusted JWKS: %w", err)
		}
		if err := keys.ResetFromJWKS(jwks); err != nil {
			return nil, fmt.Errorf("failed to load trusted JWKS: %w", err)
		}
		logger.Info("trusted JWKS loaded",
			"path", cfg.TrustedJWKSFile,
			"keys", len(jwks.Keys),
		)
	}

	// No audience restriction: upstream tokens carry a dynamic audience.
	return jwtx.NewCommonEdDSA(keys, cfg.Issuer, nil), nil
}
