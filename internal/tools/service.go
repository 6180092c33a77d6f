// Package tools implements the callable DXF operations exposed over the
// MCP and HTTP surfaces: structure inspection, CSV conversion, and their
// uploaded-file variants.
//
// Every operation resolves failures to user-facing strings or result
// fields at this boundary. Nothing is retried and nothing propagates as
// a raw fault to the transport layer; a bad file must never take the
// process down or block other requests.
package tools

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cadbridge/dxfserve/internal/config"
	"github.com/cadbridge/dxfserve/internal/dxf"
	"github.com/cadbridge/dxfserve/internal/export"
	"github.com/cadbridge/dxfserve/internal/mapper"
	"github.com/cadbridge/dxfserve/internal/store"
)

// NoLimit disables the entity bound for structure inspections.
const NoLimit = -1

// Service provides the tool operations. The store is only required for
// the uploaded-file variants; the local surface passes nil.
type Service struct {
	cfg   *config.Config
	files store.Store
}

// NewService creates a Service. files may be nil for local-only use.
func NewService(cfg *config.Config, files store.Store) *Service {
	return &Service{cfg: cfg, files: files}
}

// InspectStructure previews the entities of the drawing at path: one
// load-summary line, then a type/layer line per entity with an XDATA
// digest where present.
//
// maxEntities bounds the listing: 0 falls back to the configured
// default, negative values (NoLimit) list everything.
func (s *Service) InspectStructure(path string, maxEntities int) []string {
	doc, err := dxf.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("加载 DXF 文件失败: %v", err)}
	}

	msp := doc.Modelspace()
	messages := []string{
		fmt.Sprintf("文件加载成功，模型空间共有 %d 个实体。", len(msp)),
	}
	return append(messages, s.entityLines(msp, maxEntities)...)
}

// InspectUploaded is InspectStructure for a registered upload id.
func (s *Service) InspectUploaded(fileID string, maxEntities int) []string {
	rec, ok := s.files.Lookup(fileID)
	if !ok {
		return []string{fmt.Sprintf("错误：文件 ID %s 不存在", fileID)}
	}

	doc, err := dxf.ReadFile(rec.FilePath)
	if err != nil {
		return []string{fmt.Sprintf("加载 DXF 文件失败: %v", err)}
	}

	msp := doc.Modelspace()
	messages := []string{
		fmt.Sprintf("文件 %s 加载成功，模型空间共有 %d 个实体。", rec.OriginalName, len(msp)),
	}
	return append(messages, s.entityLines(msp, maxEntities)...)
}

// entityLines renders the per-entity summary lines, truncating past the
// resolved bound.
func (s *Service) entityLines(entities []*dxf.Entity, maxEntities int) []string {
	if maxEntities == 0 {
		maxEntities = s.cfg.Inspect.MaxEntities
	}

	var lines []string
	for idx, ent := range entities {
		if maxEntities > 0 && idx >= maxEntities {
			lines = append(lines, "...(已截断其余实体输出)")
			break
		}

		line := fmt.Sprintf("[%d] 类型:%s 图层:%s", idx+1, ent.Type, ent.Layer)
		if ent.HasXData() {
			line += " | XDATA: " + xdataDigest(ent)
		}
		lines = append(lines, line)
	}
	return lines
}

// xdataDigest renders every XDATA group as "app(code:value, ...)" parts
// joined by "; ".
func xdataDigest(ent *dxf.Entity) string {
	parts := make([]string, 0, len(ent.XData))
	for _, group := range ent.XData {
		codes := make([]string, 0, len(group.Values))
		for _, v := range group.Values {
			codes = append(codes, fmt.Sprintf("%d:%s", v.Code, v.Value))
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", group.AppID, strings.Join(codes, ", ")))
	}
	return strings.Join(parts, "; ")
}

// ConvertToCSV extracts all entities of the drawing at path and writes
// them as CSV to outputCSV (default: path with the extension replaced).
// The return value is always a user-facing status string: success with
// the resolved output path, a warning when the drawing holds no
// entities, or an error description.
func (s *Service) ConvertToCSV(path, outputCSV string) string {
	if _, err := os.Stat(path); err != nil {
		return fmt.Sprintf("[错误] 输入文件不存在：%s", path)
	}

	if outputCSV == "" {
		outputCSV = strings.TrimSuffix(path, filepath.Ext(path)) + ".csv"
	}

	doc, err := dxf.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("[错误] DXF 解析或导出失败：%v", err)
	}

	records := mapper.MapAll(doc.Modelspace())
	if len(records) == 0 {
		return fmt.Sprintf("[警告] DXF 中未发现任何实体：%s", path)
	}

	if err := export.WriteFile(outputCSV, records); err != nil {
		return fmt.Sprintf("[错误] DXF 解析或导出失败：%v", err)
	}

	resolved, err := filepath.Abs(outputCSV)
	if err != nil {
		resolved = outputCSV
	}

	slog.Info("csv export complete", "input", path, "output", resolved, "entities", len(records))
	return fmt.Sprintf("[成功] CSV 文件已生成：%s", resolved)
}

// ProcessResult is the structured outcome of processing an uploaded
// drawing. Exactly one of the success fields, Warning, or Error is set.
type ProcessResult struct {
	Status         string `json:"status,omitempty"`
	FileID         string `json:"file_id,omitempty"`
	Filename       string `json:"filename,omitempty"`
	EntityCount    int    `json:"entity_count,omitempty"`
	CSVRows        int    `json:"csv_rows,omitempty"`
	DownloadURL    string `json:"download_url,omitempty"`
	Message        string `json:"message,omitempty"`
	ResultFilename string `json:"result_filename,omitempty"`
	Warning        string `json:"warning,omitempty"`
	Error          string `json:"error,omitempty"`
}

// ProcessUploaded converts a registered upload to CSV, stores the result
// through the identity store, and returns the download metadata.
func (s *Service) ProcessUploaded(fileID string) ProcessResult {
	rec, ok := s.files.Lookup(fileID)
	if !ok {
		return ProcessResult{Error: fmt.Sprintf("文件 ID %s 不存在", fileID)}
	}

	doc, err := dxf.ReadFile(rec.FilePath)
	if err != nil {
		return ProcessResult{Error: fmt.Sprintf("DXF 处理失败: %v", err)}
	}

	records := mapper.MapAll(doc.Modelspace())
	if len(records) == 0 {
		return ProcessResult{Warning: "DXF 文件中未发现任何实体"}
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, records); err != nil {
		return ProcessResult{Error: fmt.Sprintf("DXF 处理失败: %v", err)}
	}

	if _, err := s.files.CompleteProcessing(fileID, buf.Bytes(), "csv"); err != nil {
		return ProcessResult{Error: fmt.Sprintf("DXF 处理失败: %v", err)}
	}

	// re-read for the result fields the completion filled in
	rec, _ = s.files.Lookup(fileID)

	slog.Info("upload processed", "file_id", fileID, "entities", len(records))
	return ProcessResult{
		Status:         "converted",
		FileID:         fileID,
		Filename:       rec.OriginalName,
		EntityCount:    len(records),
		CSVRows:        len(records),
		DownloadURL:    "/download/" + fileID,
		Message:        fmt.Sprintf("转换完成：%d 个实体已导出为 CSV", len(records)),
		ResultFilename: rec.ResultFilename,
	}
}
