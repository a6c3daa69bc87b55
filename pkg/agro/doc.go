// Package agro provides types, interfaces, and helpers for working with the
// AgroIPA seed logistics API.
//
// # Overview
//
// The agro package defines the domain types (DeliveryPoint, DeliveryRoute,
// Agent, SeedType, SeedRequest) and the interfaces for resource-oriented
// clients. A concrete implementation is provided by the agroclient package,
// which wires configuration, transport, and token refresh. Most consumers
// should import agroclient to construct a client and interact with the
// resource interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/ppmalta/AgroIPA/pkg/agro"
//	  "github.com/ppmalta/AgroIPA/pkg/agroclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := agroclient.New(&agro.Config{APIEndpoint: "https://api.example.com/api"})
//	  if err != nil { log.Fatal(err) }
//
//	  points, err := cli.DeliveryPoints().List(ctx, nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = points
//	}
//
// # Caching
//
// QueryStore is a keyed, TTL-based read cache over the resource clients. It
// serves stale entries while revalidating in the background, de-duplicates
// concurrent fetches for the same key, and supports periodic background
// refresh via Subscribe. Mutator wraps write operations and invalidates whole
// resource families on success. Cache backends are pluggable: in-memory,
// Redis, or NATS JetStream KV.
//
// # Errors
//
// API failures are represented by ResponseError; helpers such as IsNotFound,
// IsUnauthorized, and IsValidation make it easy to branch on common cases.
package agro
