// Package commands defines the sae CLI and wires dependencies for subcommands.
//
// Commands
//
//   - host         Listen for a peer and chat over an authenticated session
//   - connect      Join a peer from an sae:// invite
//   - fingerprint  Generate an identity and print its fingerprint
//
// # Implementation
//
// The root command loads the TOML config and builds the logging backend before
// any subcommand runs, then flag values override whatever the file set.
// Identities are ephemeral: each run generates a fresh keypair and nothing is
// written to disk.
package commands
