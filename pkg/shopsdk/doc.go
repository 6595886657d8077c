/*
Package shopsdk provides a client SDK for the minishop backend.

The package is organized around two types:

  - SDKClient: unauthenticated operations (login, invitation acceptance,
    health probes) and the entry point for creating sessions
  - Session: authenticated operations carrying a bearer access token

Create a client, then log in to obtain a session:

	client := shopsdk.NewSDKClient("https://shop.example.com")

	session, err := client.Login(ctx, "alice", "password")
	if err != nil {
		// handle error
	}

	me, err := session.Me(ctx)

Error responses from the API are returned as *APIError values, so callers
can switch on the error code:

	var apiErr *shopsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == shopsdk.ErrorCodeForbidden {
		// the caller's role does not permit this operation
	}

The shared request/response types in this package are also used by the
server's HTTP layer, keeping the wire format defined in one place.
*/
package shopsdk
