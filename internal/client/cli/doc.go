// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration and the gRPC auth client to a small REPL. The
// client keeps the token pair in memory only, so a session lasts as long
// as the process. Supported commands:
//   - register / login / logout
//   - activate <link>
//   - refresh (rotate the token pair by hand)
//   - users (protected call, refreshed transparently on expiry)
//   - ping
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
