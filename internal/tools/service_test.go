package tools

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cadbridge/dxfserve/internal/config"
	"github.com/cadbridge/dxfserve/internal/store"
)

// sampleDXF is a two-entity drawing: a LINE with XDATA and a CIRCLE.
const sampleDXF = `0
SECTION
2
ENTITIES
0
LINE
5
A1
8
Pipes
10
0.0
20
0.0
30
0.0
11
10.0
21
5.0
31
0.0
1001
PIPE_APP
1000
gas-line
0
CIRCLE
5
B2
8
Valves
10
1.0
20
2.0
30
3.0
40
5.0
0
ENDSEC
0
EOF
`

// emptyDXF has an ENTITIES section with nothing in it.
const emptyDXF = `0
SECTION
2
ENTITIES
0
ENDSEC
0
EOF
`

func testConfig() *config.Config {
	return &config.Config{
		Inspect: config.InspectConfig{MaxEntities: 200},
		Service: config.ServiceConfig{AdvertisedHost: "localhost"},
		Server:  config.ServerConfig{Port: 8000},
	}
}

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.dxf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInspectStructure(t *testing.T) {
	svc := NewService(testConfig(), nil)
	path := writeSample(t, sampleDXF)

	lines := svc.InspectStructure(path, 0)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want summary + 2 entities: %v", len(lines), lines)
	}

	if !strings.Contains(lines[0], "共有 2 个实体") {
		t.Errorf("summary = %q, want entity count", lines[0])
	}
	want := "[1] 类型:LINE 图层:Pipes | XDATA: PIPE_APP(1000:gas-line)"
	if lines[1] != want {
		t.Errorf("line 1 = %q, want %q", lines[1], want)
	}
	if lines[2] != "[2] 类型:CIRCLE 图层:Valves" {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestInspectStructure_Truncation(t *testing.T) {
	svc := NewService(testConfig(), nil)
	path := writeSample(t, sampleDXF)

	lines := svc.InspectStructure(path, 1)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want summary + 1 entity + truncation marker", len(lines))
	}
	if lines[2] != "...(已截断其余实体输出)" {
		t.Errorf("last line = %q, want truncation marker", lines[2])
	}

	// negative bound lists everything
	lines = svc.InspectStructure(path, NoLimit)
	if len(lines) != 3 {
		t.Fatalf("NoLimit: len(lines) = %d, want 3", len(lines))
	}
	if strings.Contains(lines[2], "已截断") {
		t.Error("NoLimit inspection still truncated")
	}
}

func TestInspectStructure_LoadFailure(t *testing.T) {
	svc := NewService(testConfig(), nil)

	lines := svc.InspectStructure(filepath.Join(t.TempDir(), "missing.dxf"), 0)
	if len(lines) != 1 || !strings.Contains(lines[0], "加载 DXF 文件失败") {
		t.Errorf("lines = %v, want single load-failure message", lines)
	}
}

func TestConvertToCSV(t *testing.T) {
	svc := NewService(testConfig(), nil)
	path := writeSample(t, sampleDXF)

	msg := svc.ConvertToCSV(path, "")
	if !strings.HasPrefix(msg, "[成功]") {
		t.Fatalf("ConvertToCSV() = %q, want success message", msg)
	}

	// default output: input path with .csv extension
	outPath := strings.TrimSuffix(path, ".dxf") + ".csv"
	if !strings.Contains(msg, "sample.csv") {
		t.Errorf("message %q does not mention resolved output", msg)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("output missing BOM")
	}
	if !strings.Contains(string(data), "PIPE_APP") {
		t.Error("output missing XDATA column")
	}
}

func TestConvertToCSV_Warnings(t *testing.T) {
	svc := NewService(testConfig(), nil)

	msg := svc.ConvertToCSV(filepath.Join(t.TempDir(), "missing.dxf"), "")
	if !strings.HasPrefix(msg, "[错误] 输入文件不存在") {
		t.Errorf("missing file: %q", msg)
	}

	path := writeSample(t, emptyDXF)
	msg = svc.ConvertToCSV(path, "")
	if !strings.HasPrefix(msg, "[警告]") {
		t.Errorf("empty drawing: %q, want warning", msg)
	}
	if _, err := os.Stat(strings.TrimSuffix(path, ".dxf") + ".csv"); !os.IsNotExist(err) {
		t.Error("warning case still wrote an output file")
	}

	path = writeSample(t, "not a dxf at all")
	msg = svc.ConvertToCSV(path, "")
	if !strings.HasPrefix(msg, "[错误]") {
		t.Errorf("malformed drawing: %q, want error", msg)
	}
}

func newUploadedService(t *testing.T) (*Service, string) {
	t.Helper()
	base := t.TempDir()
	files, err := store.NewFileStore(filepath.Join(base, "up"), filepath.Join(base, "res"))
	if err != nil {
		t.Fatal(err)
	}

	svc := NewService(testConfig(), files)
	id, err := files.Register("plan.dxf", "application/dxf", strings.NewReader(sampleDXF))
	if err != nil {
		t.Fatal(err)
	}
	return svc, id
}

func TestInspectUploaded(t *testing.T) {
	svc, id := newUploadedService(t)

	lines := svc.InspectUploaded(id, 0)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "plan.dxf") {
		t.Errorf("summary %q does not mention the original filename", lines[0])
	}

	lines = svc.InspectUploaded("missing-id", 0)
	if len(lines) != 1 || !strings.Contains(lines[0], "不存在") {
		t.Errorf("unknown id: %v, want single not-found message", lines)
	}
}

func TestProcessUploaded(t *testing.T) {
	svc, id := newUploadedService(t)

	res := svc.ProcessUploaded(id)
	if res.Error != "" || res.Warning != "" {
		t.Fatalf("ProcessUploaded() = %+v, want success", res)
	}
	if res.Status != "converted" {
		t.Errorf("Status = %q, want converted", res.Status)
	}
	if res.EntityCount != 2 {
		t.Errorf("EntityCount = %d, want 2", res.EntityCount)
	}
	if res.DownloadURL != "/download/"+id {
		t.Errorf("DownloadURL = %q", res.DownloadURL)
	}
	if res.ResultFilename != "plan_result.csv" {
		t.Errorf("ResultFilename = %q, want plan_result.csv", res.ResultFilename)
	}
}

func TestProcessUploaded_Errors(t *testing.T) {
	svc, _ := newUploadedService(t)

	res := svc.ProcessUploaded("missing-id")
	if res.Error == "" {
		t.Error("unknown id: no error set")
	}
}

func TestServiceInfo(t *testing.T) {
	svc := NewService(testConfig(), nil)

	info := svc.Info()
	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if info.ServerInfo.PublicAddress != "http://localhost:8000" {
		t.Errorf("PublicAddress = %q", info.ServerInfo.PublicAddress)
	}
}

func TestServiceInfo_PortOverride(t *testing.T) {
	cfg := testConfig()
	cfg.Service.AdvertisedPort = "9999"
	svc := NewService(cfg, nil)

	if got := svc.Info().ServerInfo.PublicAddress; got != "http://localhost:9999" {
		t.Errorf("PublicAddress = %q, want override port", got)
	}
}
