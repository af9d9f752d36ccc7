// Package cli provides the interactive qrtag command-line client.
//
// It wires configuration, the persisted session, API services, and an
// interactive REPL. On start the saved token (if any) is checked against
// the server; afterwards every command runs with whatever token the session
// currently holds, and a rejected token logs the user out.
//
// Key features:
//   - Login / Logout / Forgot password
//   - Look up any tag as a finder would
//   - List, activate, update and release your own tags
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
