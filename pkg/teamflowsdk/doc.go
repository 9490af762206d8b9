// Package teamflowsdk is a typed Go client for the TeamFlow HTTP API.
//
// The Client covers the unauthenticated surface (register, verify, login);
// logging in yields a Session that carries the bearer token for everything
// else:
//
//	client := teamflowsdk.NewClient("https://teamflow.example")
//	session, err := client.Login(ctx, "alice@example.com", "password")
//	if err != nil { ... }
//	ws, err := session.CreateWorkspace(ctx, "Design Team")
package teamflowsdk
