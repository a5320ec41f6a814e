// Package service wires the MCP protocol to the OTC gRPC API.
//
// It is the transport adapter layer: the package runs MCP over stdio or HTTP,
// dials the OTC service and delegates tool meaning to the domain package.
package service
