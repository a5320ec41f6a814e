// Package domain translates MCP tool calls into OTC service requests.
//
// Each tool maps to one OTCService method: the handler attaches the caller's
// identity and a request id to the outbound call and turns the response into
// structured output that MCP clients can render.
package domain
