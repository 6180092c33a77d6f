package dxf

import (
	"strings"
	"testing"
)

// dxfStream joins group-code/value pairs into a tag stream.
func dxfStream(pairs ...string) string {
	return strings.Join(pairs, "\n") + "\n"
}

// wrapEntities embeds entity tags in a minimal drawing.
func wrapEntities(pairs ...string) string {
	all := append([]string{"0", "SECTION", "2", "ENTITIES"}, pairs...)
	all = append(all, "0", "ENDSEC", "0", "EOF")
	return dxfStream(all...)
}

func TestRead_Line(t *testing.T) {
	doc, err := Read(strings.NewReader(wrapEntities(
		"0", "LINE",
		"5", "A1",
		"8", "Walls",
		"10", "1.5", "20", "2.5", "30", "0.0",
		"11", "10.0", "21", "5.0", "31", "0.0",
	)))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	msp := doc.Modelspace()
	if len(msp) != 1 {
		t.Fatalf("len(Modelspace()) = %d, want 1", len(msp))
	}

	e := msp[0]
	if e.Type != "LINE" {
		t.Errorf("Type = %q, want LINE", e.Type)
	}
	if e.Handle != "A1" {
		t.Errorf("Handle = %q, want A1", e.Handle)
	}
	if e.Layer != "Walls" {
		t.Errorf("Layer = %q, want Walls", e.Layer)
	}
	if e.Start != (Point{X: 1.5, Y: 2.5}) {
		t.Errorf("Start = %+v, want {1.5 2.5 0}", e.Start)
	}
	if e.End != (Point{X: 10, Y: 5}) {
		t.Errorf("End = %+v, want {10 5 0}", e.End)
	}
}

func TestRead_CircleWithXData(t *testing.T) {
	doc, err := Read(strings.NewReader(wrapEntities(
		"0", "CIRCLE",
		"5", "B2",
		"10", "1.0", "20", "2.0", "30", "3.0",
		"40", "5.0",
		"1001", "PIPE_APP",
		"1000", "gas-line",
		"1070", "42",
		"1001", "OTHER_APP",
		"1040", "3.14",
	)))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	e := doc.Modelspace()[0]
	if e.Center != (Point{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Center = %+v, want {1 2 3}", e.Center)
	}
	if e.Radius != 5 {
		t.Errorf("Radius = %v, want 5", e.Radius)
	}
	if e.Layer != "0" {
		t.Errorf("Layer = %q, want default 0", e.Layer)
	}

	if len(e.XData) != 2 {
		t.Fatalf("len(XData) = %d, want 2", len(e.XData))
	}
	if e.XData[0].AppID != "PIPE_APP" {
		t.Errorf("XData[0].AppID = %q, want PIPE_APP", e.XData[0].AppID)
	}
	want := []XDataValue{{Code: 1000, Value: "gas-line"}, {Code: 1070, Value: "42"}}
	if len(e.XData[0].Values) != len(want) {
		t.Fatalf("len(XData[0].Values) = %d, want %d", len(e.XData[0].Values), len(want))
	}
	for i, v := range want {
		if e.XData[0].Values[i] != v {
			t.Errorf("XData[0].Values[%d] = %+v, want %+v", i, e.XData[0].Values[i], v)
		}
	}
	if e.XData[1].AppID != "OTHER_APP" {
		t.Errorf("XData[1].AppID = %q, want OTHER_APP", e.XData[1].AppID)
	}
}

func TestRead_LWPolylineVertices(t *testing.T) {
	doc, err := Read(strings.NewReader(wrapEntities(
		"0", "LWPOLYLINE",
		"5", "C3",
		"10", "0.0", "20", "0.0",
		"10", "1.0", "20", "1.0",
		"10", "2.0", "20", "0.5",
	)))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	e := doc.Modelspace()[0]
	want := []Point{{0, 0, 0}, {1, 1, 0}, {2, 0.5, 0}}
	if len(e.Vertices) != len(want) {
		t.Fatalf("len(Vertices) = %d, want %d", len(e.Vertices), len(want))
	}
	for i, p := range want {
		if e.Vertices[i] != p {
			t.Errorf("Vertices[%d] = %+v, want %+v", i, e.Vertices[i], p)
		}
	}
}

func TestRead_LWPolylineElevationBeforeVertices(t *testing.T) {
	doc, err := Read(strings.NewReader(wrapEntities(
		"0", "LWPOLYLINE",
		"5", "C4",
		"38", "7.5",
		"10", "0.0", "20", "0.0",
		"10", "1.0", "20", "2.0",
	)))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	e := doc.Modelspace()[0]
	want := []Point{{0, 0, 7.5}, {1, 2, 7.5}}
	if len(e.Vertices) != len(want) {
		t.Fatalf("len(Vertices) = %d, want %d", len(e.Vertices), len(want))
	}
	for i, p := range want {
		if e.Vertices[i] != p {
			t.Errorf("Vertices[%d] = %+v, want %+v", i, e.Vertices[i], p)
		}
	}
}

func TestRead_PolylineOwnsVertexRecords(t *testing.T) {
	doc, err := Read(strings.NewReader(wrapEntities(
		"0", "POLYLINE",
		"5", "D4",
		"8", "Pipes",
		"0", "VERTEX",
		"10", "0.0", "20", "0.0", "30", "1.0",
		"0", "VERTEX",
		"10", "5.0", "20", "5.0", "30", "1.0",
		"0", "SEQEND",
		"0", "LINE",
		"5", "D5",
	)))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	msp := doc.Modelspace()
	if len(msp) != 2 {
		t.Fatalf("len(Modelspace()) = %d, want 2 (VERTEX/SEQEND must not surface)", len(msp))
	}

	poly := msp[0]
	if len(poly.Vertices) != 2 {
		t.Fatalf("len(Vertices) = %d, want 2", len(poly.Vertices))
	}
	if poly.Vertices[1] != (Point{X: 5, Y: 5, Z: 1}) {
		t.Errorf("Vertices[1] = %+v, want {5 5 1}", poly.Vertices[1])
	}
	if msp[1].Type != "LINE" {
		t.Errorf("second entity Type = %q, want LINE", msp[1].Type)
	}
}

func TestRead_MTextChunks(t *testing.T) {
	doc, err := Read(strings.NewReader(wrapEntities(
		"0", "MTEXT",
		"5", "E5",
		"10", "0.0", "20", "0.0", "30", "0.0",
		"3", "first chunk ",
		"3", "second chunk ",
		"1", "tail",
	)))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	e := doc.Modelspace()[0]
	if e.Text != "first chunk second chunk tail" {
		t.Errorf("Text = %q, want chunks joined in order", e.Text)
	}
}

func TestRead_UnknownEntityKept(t *testing.T) {
	doc, err := Read(strings.NewReader(wrapEntities(
		"0", "HATCH",
		"5", "F6",
		"8", "Fills",
	)))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	e := doc.Modelspace()[0]
	if e.Type != "HATCH" || e.Handle != "F6" || e.Layer != "Fills" {
		t.Errorf("unknown entity = %+v, want type/handle/layer preserved", e)
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty stream", ""},
		{"no entities section", dxfStream("0", "SECTION", "2", "HEADER", "0", "ENDSEC", "0", "EOF")},
		{"dangling group code", dxfStream("0", "SECTION", "2")},
		{"non-numeric group code", dxfStream("zero", "SECTION")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.input)); err == nil {
				t.Error("Read() error = nil, want error")
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		text string
		want string
	}{
		{"text passthrough", "TEXT", `\P raw`, `\P raw`},
		{"paragraph break", "MTEXT", `line one\Pline two`, "line one\nline two"},
		{"font directive", "MTEXT", `\fArial|b0|i0;hello`, "hello"},
		{"height and color", "MTEXT", `\H2.5;\C1;sized`, "sized"},
		{"braces dropped", "MTEXT", `{\fArial;grouped} plain`, "grouped plain"},
		{"escaped braces", "MTEXT", `\{literal\}`, "{literal}"},
		{"nbsp", "MTEXT", `a\~b`, "a b"},
		{"underline toggles", "MTEXT", `\Lunder\l normal`, "under normal"},
		{"stacked fraction slash", "MTEXT", `\S1/2; cup`, "1/2 cup"},
		{"stacked fraction caret", "MTEXT", `tol \S+0.5^ -0.5;`, "tol +0.5/-0.5"},
		{"stacked fraction hash", "MTEXT", `\S3#4;`, "3/4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Entity{Type: tt.typ, Text: tt.text}
			if got := e.PlainText(); got != tt.want {
				t.Errorf("PlainText() = %q, want %q", got, tt.want)
			}
		})
	}
}
