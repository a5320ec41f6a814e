package service

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nseguias/otc/internal/services/mcp/domain"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResourceTemplate(*mcp.ResourceTemplate, mcp.ResourceHandler)
}

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

func (r mcpServerRegistrationAdapter) AddResourceTemplate(resourceTemplate *mcp.ResourceTemplate, handler mcp.ResourceHandler) {
	r.server.AddResourceTemplate(resourceTemplate, handler)
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.DealCreateInput, domain.DealExecuteResult](),
	newMCPToolRegistrar[domain.DealAcceptInput, domain.DealExecuteResult](),
	newMCPToolRegistrar[domain.DealActionInput, domain.DealExecuteResult](),
	newMCPToolRegistrar[domain.ConfigGetInput, domain.ConfigResult](),
	newMCPToolRegistrar[domain.DealGetInput, domain.DealResult](),
	newMCPToolRegistrar[domain.DealListInput, domain.DealListResult](),
	newMCPToolRegistrar[domain.TransferListInput, domain.TransferListResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

// registerDealTools registers every OTC tool against client.
func registerDealTools(registrar mcpRegistrationTarget, client domain.OTCClient, tokens domain.TokenSource, notify domain.ResourceUpdateNotifier) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.DealCreateTool(), handler: domain.DealCreateHandler(client, tokens, notify)},
		{tool: domain.DealAcceptTool(), handler: domain.DealAcceptHandler(client, tokens, notify)},
		{tool: domain.DealCancelTool(), handler: domain.DealCancelHandler(client, tokens, notify)},
		{tool: domain.DealWithdrawTool(), handler: domain.DealWithdrawHandler(client, tokens, notify)},
		{tool: domain.ConfigGetTool(), handler: domain.ConfigGetHandler(client)},
		{tool: domain.DealGetTool(), handler: domain.DealGetHandler(client)},
		{tool: domain.DealListTool(), handler: domain.DealListHandler(client)},
		{tool: domain.TransferListTool(), handler: domain.TransferListHandler(client)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}

// registerDealResources registers readable deal MCP resources.
func registerDealResources(registrar mcpRegistrationTarget, client domain.OTCClient) {
	registrar.AddResourceTemplate(domain.DealResourceTemplate(), domain.DealResourceHandler(client))
}
