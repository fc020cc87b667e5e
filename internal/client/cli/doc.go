// Package cli provides the interactive member portal command-line shell.
//
// It wires configuration, the local session store, the request gateway and
// the auth service behind a small REPL. The shell plays the role of the
// application host: it is the Navigator the guards and the auth service
// redirect through, and the Notifier that shows their notices.
//
// Typical flow: "login" asks for a mobile number and requests an OTP,
// "verify" reads the code without echo and opens the dashboard, "logout"
// ends the session.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
