package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sae/internal/crypto"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Generate an identity and print its fingerprint",
		Long: `Generate a fresh identity keypair and print its fingerprint.

Identities live only for a single session, so this is a preview of the kind of
value your peer will see, not a stable address.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := crypto.GenerateIdentity()
			if err != nil {
				return err
			}
			defer id.Zero()
			fmt.Printf("Fingerprint: %s\n", id.Fingerprint())
			return nil
		},
	}
}
