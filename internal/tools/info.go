package tools

// Version is the advertised service version.
const Version = "1.0.0"

// ServiceInfo describes the service, its endpoints and the upload →
// process → download workflow. First-time clients call this before
// anything else.
type ServiceInfo struct {
	Service    string            `json:"service"`
	Version    string            `json:"version"`
	ServerInfo ServerInfo        `json:"server_info"`
	Endpoints  map[string]string `json:"endpoints"`
	Workflow   []string          `json:"workflow"`
	MCPTools   []string          `json:"mcp_tools"`
}

// ServerInfo carries the advertised address. The advertised port can be
// overridden via the PORT environment variable without changing where
// the server binds.
type ServerInfo struct {
	PublicAddress string `json:"public_address"`
	Status        string `json:"status"`
}

// Info returns the service metadata advertised to clients.
func (s *Service) Info() ServiceInfo {
	addr := s.cfg.PublicAddress()

	return ServiceInfo{
		Service: "DXF 处理服务",
		Version: Version,
		ServerInfo: ServerInfo{
			PublicAddress: addr,
			Status:        "运行中",
		},
		Endpoints: map[string]string{
			"upload":     "POST " + addr + "/upload - 上传 DXF 文件",
			"download":   "GET " + addr + "/download/{file_id} - 下载处理结果",
			"files":      "GET " + addr + "/files/{file_id} - 获取文件信息",
			"mcp-server": addr + "/mcp-server/sse - MCP 工具端点",
		},
		Workflow: []string{
			"1. 上传 DXF 文件: curl -X POST -F 'file=@your_file.dxf' " + addr + "/upload",
			"2. 获取返回的 file_id",
			"3. 使用 MCP 工具处理文件",
			"4. 下载结果: curl " + addr + "/download/{file_id} --output result.csv",
		},
		MCPTools: []string{
			"inspect_uploaded_dxf - 分析 DXF 结构",
			"process_uploaded_dxf - 转换为 CSV",
			"get_service_info - 获取服务信息",
		},
	}
}
