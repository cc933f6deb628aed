// Package http serves a small read-only status API over a settlersdb store.
//
// The API lets operators check on the account database of a running game
// server without opening a SQL client. All responses are JSON.
//
// # Routes
//
//	GET /healthz         liveness, never touches the database
//	GET /schema          dialect, schema version and known tables
//	GET /users/count     number of accounts
//	GET /users/{name}    stored nickname for name, matched as the schema allows
//	GET /robots/{name}   robot tuning parameters
//
// # Usage
//
//	handler := http.NewHandler(&http.HandlerConfig{CORS: cfg.CORS}, store)
//	srv := &stdhttp.Server{Addr: ":8880", Handler: handler.Router()}
//
// The store behind Service holds one connection, so the handler serializes
// every database route with a mutex.
//
// # Errors
//
// Errors from the store map onto status codes through HandleError:
//
//	settlersdb.ErrNotFound                     404 not_found
//	settlersdb.ErrValidation                   400 invalid_input
//	settlersdb.ErrNotConnected, connectivity   503 unavailable
//	anything else                              500 internal_error
package http
