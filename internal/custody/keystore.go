// Package custody describes self-custody wallets as small capability sets:
// a key store that exposes signers and a wallet that exposes accounts.
// It shares no state with the digest pipeline.
package custody

import (
	"crypto/ed25519"
	"errors"
	"fmt"
)

// ErrSignerNotFound is returned when a payload targets an account without a signer.
var ErrSignerNotFound = errors.New("signer not found")

// Signer signs one payload for a single account.
type Signer func(payload []byte) ([]byte, error)

// KeyStore exposes the signers it holds, keyed by account identifier.
type KeyStore interface {
	Type() string
	ListSigners() map[string]Signer
}

// SignRequest pairs an account with the payload it should sign.
type SignRequest struct {
	AccountID string
	Payload   []byte
}

// SignPayloads signs every request with the matching signer of ks.
// It stops at the first unknown account or signer failure.
func SignPayloads(ks KeyStore, requests []SignRequest) (map[string][]byte, error) {
	if ks == nil {
		return nil, errors.New("key store is nil")
	}

	signers := ks.ListSigners()
	results := make(map[string][]byte, len(requests))
	for _, req := range requests {
		sign, ok := signers[req.AccountID]
		if !ok || sign == nil {
			return nil, fmt.Errorf("account %q: %w", req.AccountID, ErrSignerNotFound)
		}
		sig, err := sign(req.Payload)
		if err != nil {
			return nil, fmt.Errorf("sign for account %q: %w", req.AccountID, err)
		}
		results[req.AccountID] = sig
	}
	return results, nil
}

// Ed25519Signer adapts a private key to a Signer.
func Ed25519Signer(key ed25519.PrivateKey) Signer {
	return func(payload []byte) ([]byte, error) {
		if len(key) != ed25519.PrivateKeySize {
			return nil, errors.New("invalid ed25519 private key")
		}
		return ed25519.Sign(key, payload), nil
	}
}
