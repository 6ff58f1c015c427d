package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sae/internal/app"
	"sae/internal/crypto"
	"sae/internal/securesession"
	"sae/internal/transport"
)

func hostCmd() *cobra.Command {
	var listen string
	var basic bool

	cmd := &cobra.Command{
		Use:   "host",
		Short: "Listen for a peer and chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = cfg.Listen
			}
			l, err := transport.Listen(listen)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", listen, err)
			}
			defer l.Close()

			fmt.Printf("Invite: %s\n", transport.Invite(l.Addr()))
			fmt.Println("Waiting for a peer...")
			conn, err := l.Accept()
			if err != nil {
				return err
			}

			if basic {
				sess, err := securesession.EstablishBasicHost(conn)
				if err != nil {
					return err
				}
				fmt.Println("Unauthenticated session up. Verify your peer out of band.")
				return app.RunChat(sess, cfg.Username, os.Stdin, os.Stdout, backend.GetLogger("chat"))
			}

			id, err := crypto.GenerateIdentity()
			if err != nil {
				return err
			}
			defer id.Zero()
			fmt.Printf("Your fingerprint: %s\n", id.Fingerprint())

			mgr := securesession.NewManager(id, conn, backend)
			if err := mgr.EstablishHost(); err != nil {
				return err
			}
			fmt.Printf("Peer fingerprint: %s\n", mgr.PeerFingerprint())
			fmt.Println("Compare fingerprints over a separate channel before trusting the chat.")
			return app.RunChat(mgr, cfg.Username, os.Stdin, os.Stdout, backend.GetLogger("chat"))
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "bind address (default from config)")
	cmd.Flags().BoolVar(&basic, "basic", false, "skip identity authentication (encrypt only)")
	return cmd
}
