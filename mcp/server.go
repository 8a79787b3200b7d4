package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Aashish23092/paystub-extraction/dto"
	"github.com/Aashish23092/paystub-extraction/service"
	"github.com/Aashish23092/paystub-extraction/utils/paystub"
)

const (
	ServerName    = "paystub-extraction"
	ServerVersion = "1.0.0"
)

// Server exposes the extraction pipeline as MCP tools over stdio.
type Server struct {
	paystubService *service.PaystubService
	mcpServer      *server.MCPServer
}

func NewServer(paystubService *service.PaystubService) (*Server, error) {
	if paystubService == nil {
		return nil, fmt.Errorf("paystubService cannot be nil")
	}

	s := &Server{
		paystubService: paystubService,
		mcpServer: server.NewMCPServer(
			ServerName,
			ServerVersion,
			server.WithToolCapabilities(false),
		),
	}
	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	parseTool := mcp.NewTool(
		"paystub_parse",
		mcp.WithDescription("Extract the flat field record from a pay stub PDF or scanned image"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the pay stub file"),
		),
		mcp.WithString("password",
			mcp.Description("Password for encrypted PDFs"),
		),
		mcp.WithString("strategy",
			mcp.Description("Extraction strategy: auto (default), positional or regex"),
		),
	)
	s.mcpServer.AddTool(parseTool, s.handleParse)

	fieldsTool := mcp.NewTool(
		"paystub_fields",
		mcp.WithDescription("List the field names produced by paystub_parse"),
	)
	s.mcpServer.AddTool(fieldsTool, s.handleFields)
}

// parseResult is the tool payload: the flat record plus the checks a
// caller needs to judge it.
type parseResult struct {
	Filename       string              `json:"filename"`
	Strategy       dto.Strategy        `json:"strategy"`
	Fields         dto.FlatRecord      `json:"fields"`
	Quality        dto.DocumentQuality `json:"quality"`
	Reconciliation dto.Reconciliation  `json:"reconciliation"`
}

func (s *Server) handleParse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	password, _ := args["password"].(string)
	rawStrategy, _ := args["strategy"].(string)

	strategy, err := dto.ParseStrategy(rawStrategy)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", path, err)), nil
	}

	resp, err := s.paystubService.ParseDocument(ctx, &dto.ParseRequest{
		Filename: filepath.Base(path),
		Data:     data,
		Password: password,
		Strategy: strategy,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := json.MarshalIndent(parseResult{
		Filename:       resp.Filename,
		Strategy:       resp.Strategy,
		Fields:         resp.Fields,
		Quality:        resp.Quality,
		Reconciliation: resp.Reconciliation,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

type fieldInfo struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Numeric bool   `json:"numeric"`
}

func (s *Server) handleFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := paystub.FieldNames()
	fields := make([]fieldInfo, 0, len(names))
	for _, name := range names {
		fields = append(fields, fieldInfo{
			Name:    name,
			Label:   paystub.FieldLabel(name),
			Numeric: paystub.IsNumericField(name),
		})
	}

	out, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// Run serves MCP over standard input and output until the stream closes.
func (s *Server) Run(ctx context.Context) error {
	log.Printf("Starting %s MCP server on stdio", ServerName)
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
