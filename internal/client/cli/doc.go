// Package cli provides the interactive ProfileKeeper command-line client.
//
// It wires configuration, the local key-value store, the user source (the
// in-process mock directory or the backend over HTTP or gRPC) and an
// interactive REPL. On start the previous session is restored from the
// store, so a user who did not log out lands straight on their profile.
//
// Commands:
//   - login / register / logout
//   - profile, details, edit
//   - settings, dark on|off, notify on|off, lang <code>, reset
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
