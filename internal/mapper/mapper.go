// Package mapper flattens parsed DXF entities into export records.
//
// Mapping is a fixed dispatch on the entity type: each recognized kind
// contributes a Position rendering plus kind-specific extra fields.
// Unrecognized kinds are not an error; they keep the default Position
// and add nothing.
package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cadbridge/dxfserve/internal/dxf"
	"github.com/cadbridge/dxfserve/internal/export"
)

// xdataStringCode is the XDATA group code for an ASCII string value.
const xdataStringCode = 1000

// Map converts one entity to a flat record. It never fails: every
// entity yields at least Handle, EntityType, Layer and Position.
func Map(e *dxf.Entity) export.Record {
	rec := export.Record{
		"Handle":     e.Handle,
		"EntityType": e.Type,
		"Layer":      e.Layer,
		"Position":   "N/A",
	}

	switch e.Type {
	case "POLYLINE", "LWPOLYLINE":
		rec["Position"] = joinPoints(e.Vertices)
	case "LINE":
		rec["Position"] = fmt.Sprintf("Start%s;End%s", formatPoint(e.Start), formatPoint(e.End))
	case "INSERT":
		rec["Position"] = formatPoint(e.Insert)
		rec["BlockName"] = e.BlockName
	case "TEXT", "MTEXT":
		rec["Position"] = formatPoint(e.Insert)
		rec["TextValue"] = e.PlainText()
	case "CIRCLE", "ARC":
		rec["Position"] = "Center" + formatPoint(e.Center)
		rec["Radius"] = strconv.FormatFloat(e.Radius, 'f', -1, 64)
	case "SPLINE":
		rec["Position"] = joinPoints(e.ControlPoints)
	}

	// one column per application id: the first code-1000 string wins
	for _, group := range e.XData {
		for _, v := range group.Values {
			if v.Code == xdataStringCode {
				rec[group.AppID] = v.Value
				break
			}
		}
	}

	return rec
}

// MapAll maps every entity of a modelspace in order.
func MapAll(entities []*dxf.Entity) []export.Record {
	records := make([]export.Record, 0, len(entities))
	for _, e := range entities {
		records = append(records, Map(e))
	}
	return records
}

// formatPoint renders a coordinate triple with fixed 3-decimal output.
// This is a display contract, not a precision guarantee.
func formatPoint(p dxf.Point) string {
	return fmt.Sprintf("(%.3f,%.3f,%.3f)", p.X, p.Y, p.Z)
}

// joinPoints renders a vertex sequence as "; "-separated triples.
func joinPoints(pts []dxf.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = formatPoint(p)
	}
	return strings.Join(parts, "; ")
}
