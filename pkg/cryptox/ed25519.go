package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// GenerateEd25519Key generates a new Ed25519 private key.
// Ed25519 keys are always 256 bits (32 bytes) and don't require a size parameter.
// Returns the private key in PEM format (PKCS8).
func GenerateEd25519Key() ([]byte, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate Ed25519 key: %w", err)
	}

	// Ed25519 keys are always marshaled as PKCS8
	privateKeyBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to marshal PKCS8 key: %w", err)
	}

	privateKeyPEM := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: privateKeyBytes,
	}

	return pem.EncodeToMemory(privateKeyPEM), nil
}

// ParseEd25519PrivateKeyPEM loads an Ed25519 private key from PEM bytes.
// Keys must be in PKCS8 format.
func ParseEd25519PrivateKeyPEM(pemKey []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("cryptox: invalid PEM for Ed25519 key")
	}

	if block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("cryptox: expected PRIVATE KEY, got %q (Ed25519 requires PKCS8)", block.Type)
	}

	priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("cryptox: parse PKCS8: %w", err)
	}

	key, ok := priv.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("cryptox: not Ed25519 private key")
	}

	return key, nil
}

// LoadOrCreateEd25519Key reads an Ed25519 private key from path, generating
// and persisting a fresh one (0600) when the file does not exist yet.
func LoadOrCreateEd25519Key(path string) (ed25519.PrivateKey, error) {
	pemKey, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		pemKey, err = GenerateEd25519Key()
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, pemKey, 0o600); err != nil {
			return nil, fmt.Errorf("cryptox: persist signing key: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("cryptox: read signing key: %w", err)
	}

	return ParseEd25519PrivateKeyPEM(pemKey)
}

// ParseEd25519PublicKey decodes a base64url (unpadded) encoded Ed25519
// public key and validates its size.
func ParseEd25519PublicKey(encoded string) (ed25519.PublicKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("cryptox: decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("cryptox: invalid Ed25519 public key size %d", len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// EncodePublicKey returns the base64url (unpadded) text form of an Ed25519
// public key, the encoding used throughout the wire protocol.
func EncodePublicKey(pub ed25519.PublicKey) string {
	return base64.RawURLEncoding.EncodeToString(pub)
}

// SignDetached produces a detached Ed25519 signature over msg, base64url
// encoded so it can travel separately from the message.
func SignDetached(key ed25519.PrivateKey, msg []byte) string {
	return base64.RawURLEncoding.EncodeToString(ed25519.Sign(key, msg))
}

// VerifyDetached checks a base64url detached signature over msg.
func VerifyDetached(pub ed25519.PublicKey, msg []byte, signature string) bool {
	sig, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, msg, sig)
}
