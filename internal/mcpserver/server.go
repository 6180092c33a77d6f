// Package mcpserver registers the DXF tool operations on MCP servers:
// a stdio server for local use and an SSE server mounted on the HTTP
// service for remote use.
package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cadbridge/dxfserve/internal/tools"
)

// serverName identifies the MCP server to clients.
const serverName = "CAD-DXF 工具服务"

// NewLocalServer builds the stdio-transport server exposing the
// filepath-based tools.
func NewLocalServer(svc *tools.Service) *server.MCPServer {
	s := server.NewMCPServer(serverName, tools.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("inspect_dxf_structure",
		mcp.WithDescription("分析并预览 DXF 文件中实体的类型、图层信息与 XDATA 数据"),
		mcp.WithString("filepath",
			mcp.Required(),
			mcp.Description("DXF 文件的路径"),
		),
		mcp.WithNumber("max_entities",
			mcp.Description("最大显示实体数量，默认为 200；负数表示输出全部实体"),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := req.RequireString("filepath")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		lines := svc.InspectStructure(path, req.GetInt("max_entities", 0))
		return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
	})

	s.AddTool(mcp.NewTool("dxf_entities_to_csv",
		mcp.WithDescription("将 DXF 文件中的所有实体及其属性（位置、图层、文本、XDATA 等）提取并保存为 CSV 表格"),
		mcp.WithString("filepath",
			mcp.Required(),
			mcp.Description("输入的 DXF 文件路径"),
		),
		mcp.WithString("output_csv",
			mcp.Description("可选的输出 CSV 文件路径，默认与 DXF 同名"),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := req.RequireString("filepath")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		msg := svc.ConvertToCSV(path, req.GetString("output_csv", ""))
		return mcp.NewToolResultText(msg), nil
	})

	return s
}

// NewRemoteServer builds the server exposing the uploaded-file tools
// that resolve drawings through the identity store.
func NewRemoteServer(svc *tools.Service) *server.MCPServer {
	s := server.NewMCPServer(serverName, tools.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("inspect_uploaded_dxf",
		mcp.WithDescription("分析已上传 DXF 文件中实体的类型、图层信息与 XDATA 数据。需要先通过 POST /upload 上传文件获取 file_id"),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("上传文件后获得的唯一标识符"),
		),
		mcp.WithNumber("max_entities",
			mcp.Description("最大显示实体数量，默认为 200；负数表示输出全部实体"),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		fileID, err := req.RequireString("file_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		lines := svc.InspectUploaded(fileID, req.GetInt("max_entities", 0))
		return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
	})

	s.AddTool(mcp.NewTool("process_uploaded_dxf",
		mcp.WithDescription("处理已上传的 DXF 文件并生成 CSV。结果可通过 GET /download/{file_id} 下载"),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("上传文件后获得的唯一标识符"),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		fileID, err := req.RequireString("file_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(svc.ProcessUploaded(fileID))
	})

	s.AddTool(mcp.NewTool("get_service_info",
		mcp.WithDescription("获取 DXF 处理服务的使用说明、服务器地址和工作流程。首次使用服务时请先调用此工具"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(svc.Info())
	})

	return s
}

// SSEBasePath is where the remote MCP transport is mounted on the HTTP
// server.
const SSEBasePath = "/mcp-server"

// NewSSEHandler wraps an MCP server in its SSE transport for mounting
// under SSEBasePath.
func NewSSEHandler(s *server.MCPServer) http.Handler {
	return server.NewSSEServer(s, server.WithStaticBasePath(SSEBasePath))
}

// jsonResult serializes v as an MCP text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
