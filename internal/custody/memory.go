package custody

import (
	"maps"
	"slices"
	"sync"
)

const inMemoryType = "in-memory"

// InMemoryKeyStore keeps signers in process memory.
type InMemoryKeyStore struct {
	mu      sync.RWMutex
	signers map[string]Signer
}

var _ KeyStore = (*InMemoryKeyStore)(nil)

// NewInMemoryKeyStore copies signers into a new store.
func NewInMemoryKeyStore(signers map[string]Signer) *InMemoryKeyStore {
	return &InMemoryKeyStore{signers: maps.Clone(signers)}
}

// Type identifies the store as "in-memory".
func (s *InMemoryKeyStore) Type() string { return inMemoryType }

// ListSigners returns a snapshot; callers may modify it freely.
func (s *InMemoryKeyStore) ListSigners() map[string]Signer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Signer, len(s.signers))
	maps.Copy(out, s.signers)
	return out
}

// Add registers or replaces the signer of an account.
func (s *InMemoryKeyStore) Add(accountID string, signer Signer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signers == nil {
		s.signers = map[string]Signer{}
	}
	s.signers[accountID] = signer
}

// InMemoryWallet is a fixed set of accounts with static metadata.
type InMemoryWallet struct {
	metadata WalletMetadata
	accounts []string
}

var _ Wallet = (*InMemoryWallet)(nil)

// NewInMemoryWallet copies accounts into a wallet described by metadata.
func NewInMemoryWallet(metadata WalletMetadata, accounts ...string) *InMemoryWallet {
	return &InMemoryWallet{metadata: metadata, accounts: slices.Clone(accounts)}
}

// Metadata returns the wallet description.
func (w *InMemoryWallet) Metadata() WalletMetadata { return w.metadata }

// ListAccounts returns a copy of the account identifiers in insertion order.
func (w *InMemoryWallet) ListAccounts() []string { return slices.Clone(w.accounts) }
