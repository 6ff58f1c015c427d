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

func connectCmd() *cobra.Command {
	var useTor bool
	var socksAddr string
	var basic bool

	cmd := &cobra.Command{
		Use:   "connect <invite>",
		Short: "Join a peer from an sae:// invite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := transport.ParseInvite(args[0])
			if err != nil {
				return err
			}

			if socksAddr == "" {
				socksAddr = cfg.SOCKSProxy
			}
			tor := useTor || cfg.UseTor

			var conn *transport.Conn
			if tor {
				if !transport.SOCKS5Available(socksAddr) {
					return fmt.Errorf("no SOCKS5 proxy at %s; is Tor running?", socksAddr)
				}
				conn, err = transport.DialSOCKS5(socksAddr, addr)
			} else {
				conn, err = transport.Dial(addr)
			}
			if err != nil {
				return fmt.Errorf("connecting to %s: %w", addr, err)
			}

			if basic {
				sess, err := securesession.EstablishBasicClient(conn)
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
			if err := mgr.EstablishClient(); err != nil {
				return err
			}
			fmt.Printf("Peer fingerprint: %s\n", mgr.PeerFingerprint())
			fmt.Println("Compare fingerprints over a separate channel before trusting the chat.")
			return app.RunChat(mgr, cfg.Username, os.Stdin, os.Stdout, backend.GetLogger("chat"))
		},
	}

	cmd.Flags().BoolVar(&useTor, "tor", false, "dial through the local Tor SOCKS5 proxy")
	cmd.Flags().StringVar(&socksAddr, "socks", "", "SOCKS5 proxy address (default from config)")
	cmd.Flags().BoolVar(&basic, "basic", false, "skip identity authentication (encrypt only)")
	return cmd
}
