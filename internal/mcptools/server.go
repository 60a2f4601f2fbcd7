package mcptools

import (
	"github.com/mark3labs/mcp-go/server"
)

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

// NewServer builds an MCP server with every nutriclaude tool registered.
func NewServer(name, version string, api API) (*server.MCPServer, error) {
	s := server.NewMCPServer(name, version, server.WithToolCapabilities(true))
	for _, h := range []toolRegisterer{NewLogHandler(api), NewDashboardHandler(api)} {
		if err := h.RegisterTools(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}
