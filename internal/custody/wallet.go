package custody

import "errors"

// WalletMetadata describes the public characteristics of a wallet.
type WalletMetadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Chains      []string `json:"chains"`
}

// Validate requires a name, a description and non-empty chain identifiers.
func (m WalletMetadata) Validate() error {
	if m.Name == "" {
		return errors.New("wallet name must not be empty")
	}
	if m.Description == "" {
		return errors.New("wallet description must not be empty")
	}
	for _, chain := range m.Chains {
		if chain == "" {
			return errors.New("chain identifiers must be non-empty strings")
		}
	}
	return nil
}

// Wallet exposes its metadata and known account identifiers.
type Wallet interface {
	Metadata() WalletMetadata
	ListAccounts() []string
}
