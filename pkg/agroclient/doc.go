// Package agroclient constructs AgroIPA API clients.
//
// The package normalizes the configured endpoint, selects a token manager for
// the configured credentials, and wires the HTTP transport with retries and
// the refresh-and-replay interceptor. The returned client satisfies
// agro.Client.
//
//	cli, err := agroclient.NewWithTokens("https://api.example.com/api", access, refresh)
//	if err != nil {
//	  // handle
//	}
//	points, err := cli.DeliveryPoints().List(ctx, nil)
package agroclient
