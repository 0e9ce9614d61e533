package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"NewsDigest/internal/custody"
)

func newWalletCmd() *cobra.Command {
	var (
		meta     custody.WalletMetadata
		accounts []string
		message  string
	)

	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Bootstrap an in-memory wallet with fresh ed25519 signers and describe it",
		RunE: func(cmd *cobra.Command, args []string) error {
			keystore := custody.NewInMemoryKeyStore(nil)
			publicKeys := make(map[string]string, len(accounts))
			for _, account := range accounts {
				pub, priv, err := ed25519.GenerateKey(nil)
				if err != nil {
					return fmt.Errorf("generate key for %s: %w", account, err)
				}
				keystore.Add(account, custody.Ed25519Signer(priv))
				publicKeys[account] = hex.EncodeToString(pub)
			}

			rc, err := custody.NewRuntimeContext(custody.NewInMemoryWallet(meta, accounts...), keystore)
			if err != nil {
				return err
			}
			if err := rc.Bootstrap(); err != nil {
				return err
			}

			var signatures map[string][]byte
			if message != "" {
				requests := make([]custody.SignRequest, 0, len(accounts))
				for _, account := range rc.Wallet().ListAccounts() {
					requests = append(requests, custody.SignRequest{AccountID: account, Payload: []byte(message)})
				}
				if signatures, err = custody.SignPayloads(rc.KeyStore(), requests); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, rc.Describe())
			for _, account := range rc.Wallet().ListAccounts() {
				fmt.Fprintf(out, "Account %s: %s\n", account, publicKeys[account])
				if sig, ok := signatures[account]; ok {
					fmt.Fprintf(out, "Signature %s: %s\n", account, hex.EncodeToString(sig))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&meta.Name, "name", "", "wallet name")
	cmd.Flags().StringVar(&meta.Description, "description", "", "wallet description")
	cmd.Flags().StringSliceVar(&meta.Chains, "chain", nil, "supported chain identifier (repeatable)")
	cmd.Flags().StringSliceVar(&accounts, "account", nil, "account identifier (repeatable)")
	cmd.Flags().StringVar(&message, "message", "", "sign this message with every account")

	return cmd
}
