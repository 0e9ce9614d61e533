package custody

import (
	"errors"
	"fmt"
	"strings"
)

// Bootstrap failures.
var (
	// ErrNoSigners is returned when the key store holds no signers.
	ErrNoSigners = errors.New("no signers were discovered in the key store")
	// ErrNoAccounts is returned when the wallet lists no accounts.
	ErrNoAccounts = errors.New("wallet must expose at least one account")
)

// RuntimeContext links a wallet to the key store that signs for it.
type RuntimeContext struct {
	wallet   Wallet
	keystore KeyStore
}

// NewRuntimeContext checks that both capabilities are present and well described.
func NewRuntimeContext(wallet Wallet, keystore KeyStore) (*RuntimeContext, error) {
	if wallet == nil {
		return nil, errors.New("wallet is required")
	}
	if keystore == nil {
		return nil, errors.New("key store is required")
	}
	if err := wallet.Metadata().Validate(); err != nil {
		return nil, fmt.Errorf("wallet metadata: %w", err)
	}
	if keystore.Type() == "" {
		return nil, errors.New("key store type must be a non-empty string")
	}
	return &RuntimeContext{wallet: wallet, keystore: keystore}, nil
}

// Wallet returns the bound wallet.
func (rc *RuntimeContext) Wallet() Wallet { return rc.wallet }

// KeyStore returns the bound key store.
func (rc *RuntimeContext) KeyStore() KeyStore { return rc.keystore }

// Describe renders a human readable summary of the context.
func (rc *RuntimeContext) Describe() string {
	meta := rc.wallet.Metadata()
	chains := "none"
	if len(meta.Chains) > 0 {
		chains = strings.Join(meta.Chains, ", ")
	}
	return fmt.Sprintf("Wallet: %s\nDescription: %s\nChains: %s\nKey store type: %s",
		meta.Name, meta.Description, chains, rc.keystore.Type())
}

// Bootstrap verifies the context exposes at least one signer and one account,
// all with non-empty identifiers.
func (rc *RuntimeContext) Bootstrap() error {
	signers := rc.keystore.ListSigners()
	if len(signers) == 0 {
		return ErrNoSigners
	}

	accounts := rc.wallet.ListAccounts()
	if len(accounts) == 0 {
		return ErrNoAccounts
	}

	for _, account := range accounts {
		if account == "" {
			return errors.New("wallet accounts must be non-empty strings")
		}
	}
	for id := range signers {
		if id == "" {
			return errors.New("signer identifiers must be non-empty strings")
		}
	}
	return nil
}
