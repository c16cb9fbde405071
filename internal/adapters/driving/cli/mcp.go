package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so an AI assistant can build
document checklists and prepare PDFs for the student.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead, for the MCP Inspector. The
HTTP server binds to 127.0.0.1 unless --host says otherwise, since
run_document_tool reads and writes files on this machine.

Examples:
  # Stdio mode (default)
  scholardocs mcp serve

  # HTTP mode
  scholardocs mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "scholardocs": {
        "command": "/path/to/scholardocs",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("host", "127.0.0.1", "HTTP bind address")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Requirements: requirementService,
		Tools:        toolService,
		Wizard:       wizardService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		host, _ := cmd.Flags().GetString("host")
		addr := net.JoinHostPort(host, strconv.Itoa(port))
		cmd.Printf("MCP server listening on http://%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
