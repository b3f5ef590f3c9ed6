// Package mcp exposes the application registry and shortcut lists to MCP
// clients over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/keysheet/internal/ipc"
	"github.com/1broseidon/keysheet/internal/registry"
	"github.com/1broseidon/keysheet/internal/storage"
)

const (
	ServerName    = "keysheet"
	ServerVersion = "0.1.0"
)

// Catalog is the read side of the store used by the tools.
type Catalog interface {
	Applications() (registry.Registry, error)
	ListsFor(appID string) ([]storage.ShortcutList, error)
	PreferredList(app registry.Application) (storage.ShortcutList, bool, error)
}

// ActiveAppSource asks the running daemon for the focused application.
type ActiveAppSource interface {
	GetActiveApp() (*ipc.ActiveAppData, error)
}

var (
	_ Catalog         = (*storage.Store)(nil)
	_ ActiveAppSource = (*ipc.Client)(nil)
)

// Server is the MCP server for keysheet.
type Server struct {
	mcpServer *mcpsdk.Server
	catalog   Catalog
	daemon    ActiveAppSource
}

// NewServer creates an MCP server backed by catalog. daemon may be nil, in
// which case active_application always fails.
func NewServer(catalog Catalog, daemon ActiveAppSource) *Server {
	s := &Server{
		catalog: catalog,
		daemon:  daemon,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_applications",
		Description: "List every application keysheet knows about: the bundled catalog merged with user overrides. Overrides replace bundled entries with the same process name.",
	}, s.handleListApplications)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "lookup_application",
		Description: "Resolve a process name to a registered application. Matching ignores case, directories and a trailing .exe. When nothing matches, near-miss suggestions are returned.",
	}, s.handleLookupApplication)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_shortcuts",
		Description: "Return the shortcut lists stored for an application, identified by ID, process name or display name.",
	}, s.handleGetShortcuts)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "active_application",
		Description: "Ask the running keysheet daemon which application owns the focused window, together with the shortcut list the overlay would show for it.",
	}, s.handleActiveApplication)
}
