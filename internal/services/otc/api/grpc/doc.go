// Package grpc groups the gRPC transport for the OTC service: request
// metadata, caller authentication and the OTCService handlers.
package grpc
