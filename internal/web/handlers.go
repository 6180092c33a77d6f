package web

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cadbridge/dxfserve/internal/logging"
)

// uploadResponse is the JSON body returned by a successful upload.
type uploadResponse struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Message  string `json:"message"`
	NextStep string `json:"next_step"`
}

// handleServiceInfo reports the service metadata and workflow.
func (s *Server) handleServiceInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.tools.Info())
}

// handleUpload accepts a multipart DXF upload and registers it with the
// identity store. Only files with a .dxf suffix are accepted.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Storage.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".dxf") {
		writeError(w, r, http.StatusBadRequest, "只支持 DXF 文件格式")
		return
	}

	fileID, err := s.files.Register(header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "文件上传失败: "+err.Error())
		return
	}

	rec, _ := s.files.Lookup(fileID)
	logging.FromContext(r.Context()).Info("file uploaded",
		"file_id", fileID,
		"filename", rec.OriginalName,
		"size", rec.FileSize,
	)

	writeJSON(w, uploadResponse{
		FileID:   fileID,
		Filename: rec.OriginalName,
		Size:     rec.FileSize,
		Message:  "DXF 文件上传成功",
		NextStep: "使用 MCP 工具 'inspect_uploaded_dxf' 或 'process_uploaded_dxf' 处理文件",
	})
}

// handleFileInfo returns the full upload record for a file id.
func (s *Server) handleFileInfo(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	rec, ok := s.files.Lookup(fileID)
	if !ok {
		writeError(w, r, http.StatusNotFound, "文件不存在")
		return
	}

	writeJSON(w, rec)
}

// handleDownload serves the processing result as a CSV attachment. The
// id must be known, processed, and the result file still on disk.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	rec, ok := s.files.Lookup(fileID)
	if !ok {
		writeError(w, r, http.StatusNotFound, "文件不存在")
		return
	}

	if rec.ResultPath == "" {
		writeError(w, r, http.StatusNotFound, "文件尚未处理")
		return
	}

	if _, err := os.Stat(rec.ResultPath); err != nil {
		writeError(w, r, http.StatusNotFound, "结果文件不存在")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+rec.ResultFilename+`"`)
	http.ServeFile(w, r, rec.ResultPath)
}
