// Package api defines the request and response messages of the famiglia.v1 services.
//
// Messages are plain structs encoded as JSON on the wire; see package apiconnect for
// the Connect handlers and clients. Timestamps are Unix seconds. Month is 1-12.
package api
