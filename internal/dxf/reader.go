package dxf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// maxTagLine bounds a single DXF value line. Real-world MTEXT chunks cap
// at 250 characters but binary-ish garbage should not blow up the scanner.
const maxTagLine = 1 << 20

// tag is one group-code/value pair from the tag stream.
type tag struct {
	code  int
	value string
}

// ReadFile parses the DXF drawing at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dxf file: %w", err)
	}
	defer f.Close()

	doc, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Read parses a DXF tag stream. The stream is a sequence of line pairs:
// a numeric group code followed by its value. Only the ENTITIES section
// is materialized; all other sections are skipped.
func Read(r io.Reader) (*Document, error) {
	tags, err := scanTags(r)
	if err != nil {
		return nil, err
	}

	entTags, err := entitiesSection(tags)
	if err != nil {
		return nil, err
	}

	return &Document{entities: parseEntities(entTags)}, nil
}

// scanTags reads the full tag stream. An odd trailing line (a code with
// no value) is a structural error.
func scanTags(r io.Reader) ([]tag, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxTagLine)

	var tags []tag
	lineNo := 0
	for sc.Scan() {
		lineNo++
		codeLine := strings.TrimSpace(sc.Text())

		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, fmt.Errorf("read line %d: %w", lineNo, err)
			}
			return nil, fmt.Errorf("line %d: group code %q has no value line", lineNo, codeLine)
		}
		lineNo++
		value := strings.TrimRight(sc.Text(), "\r")

		code, err := strconv.Atoi(codeLine)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group code %q", lineNo-1, codeLine)
		}
		tags = append(tags, tag{code: code, value: value})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", lineNo, err)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("empty dxf stream")
	}
	return tags, nil
}

// entitiesSection returns the tags between "0 SECTION / 2 ENTITIES" and
// the matching "0 ENDSEC".
func entitiesSection(tags []tag) ([]tag, error) {
	for i := 0; i < len(tags)-1; i++ {
		if tags[i].code == 0 && tags[i].value == "SECTION" &&
			tags[i+1].code == 2 && strings.EqualFold(tags[i+1].value, "ENTITIES") {
			start := i + 2
			for j := start; j < len(tags); j++ {
				if tags[j].code == 0 && tags[j].value == "ENDSEC" {
					return tags[start:j], nil
				}
			}
			// tolerate a truncated trailing section
			return tags[start:], nil
		}
	}
	return nil, fmt.Errorf("no ENTITIES section found")
}

// parseEntities walks the section tag list entity by entity. Each entity
// starts at a code-0 tag carrying its type name. POLYLINE entities own
// the VERTEX records that follow them, up to the closing SEQEND.
func parseEntities(tags []tag) []*Entity {
	var entities []*Entity

	i := 0
	for i < len(tags) {
		if tags[i].code != 0 {
			// stray tag outside an entity, skip
			i++
			continue
		}
		typ := strings.ToUpper(strings.TrimSpace(tags[i].value))
		i++

		body, next := collectBody(tags, i)
		i = next

		switch typ {
		case "VERTEX", "SEQEND":
			// orphaned polyline members, nothing to attach them to
			continue
		}

		ent := buildEntity(typ, body)

		if typ == "POLYLINE" {
			i = attachVertices(ent, tags, i)
		}
		entities = append(entities, ent)
	}
	return entities
}

// collectBody gathers the tags of one entity, stopping at the next
// code-0 tag. Returns the body and the index of the stopper.
func collectBody(tags []tag, i int) ([]tag, int) {
	start := i
	for i < len(tags) && tags[i].code != 0 {
		i++
	}
	return tags[start:i], i
}

// attachVertices consumes the VERTEX records following a POLYLINE and
// appends their coordinates to the entity. Stops after SEQEND.
func attachVertices(ent *Entity, tags []tag, i int) int {
	for i < len(tags) && tags[i].code == 0 {
		name := strings.ToUpper(strings.TrimSpace(tags[i].value))
		if name != "VERTEX" && name != "SEQEND" {
			return i
		}
		i++
		body, next := collectBody(tags, i)
		i = next
		if name == "SEQEND" {
			return i
		}

		var p Point
		for _, t := range body {
			switch t.code {
			case 10:
				p.X = parseFloat(t.value)
			case 20:
				p.Y = parseFloat(t.value)
			case 30:
				p.Z = parseFloat(t.value)
			}
		}
		ent.Vertices = append(ent.Vertices, p)
	}
	return i
}

// buildEntity interprets an entity's tag body. Common codes (handle,
// layer, XDATA) apply to every kind; geometry codes are interpreted per
// entity type. Unknown types keep their name and common attributes only.
func buildEntity(typ string, body []tag) *Entity {
	ent := &Entity{Type: typ, Layer: "0"}

	// code 3 carries leading 250-char MTEXT chunks, code 1 the tail
	var mtextLead, mtextTail []string
	// code 38 may precede or follow the LWPOLYLINE vertex list
	var elevation float64
	inXData := false

	for _, t := range body {
		// code 1001 opens an XDATA group; everything >= 1000 after it
		// belongs to extended data, not to the entity proper.
		if t.code == 1001 {
			ent.XData = append(ent.XData, XDataGroup{AppID: t.value})
			inXData = true
			continue
		}
		if inXData && t.code >= 1000 {
			g := &ent.XData[len(ent.XData)-1]
			g.Values = append(g.Values, XDataValue{Code: t.code, Value: t.value})
			continue
		}

		switch t.code {
		case 5:
			ent.Handle = t.value
		case 8:
			ent.Layer = t.value
		}

		switch typ {
		case "LINE":
			switch t.code {
			case 10:
				ent.Start.X = parseFloat(t.value)
			case 20:
				ent.Start.Y = parseFloat(t.value)
			case 30:
				ent.Start.Z = parseFloat(t.value)
			case 11:
				ent.End.X = parseFloat(t.value)
			case 21:
				ent.End.Y = parseFloat(t.value)
			case 31:
				ent.End.Z = parseFloat(t.value)
			}
		case "LWPOLYLINE":
			switch t.code {
			case 10:
				ent.Vertices = append(ent.Vertices, Point{X: parseFloat(t.value), Z: elevation})
			case 20:
				if n := len(ent.Vertices); n > 0 {
					ent.Vertices[n-1].Y = parseFloat(t.value)
				}
			case 38:
				// elevation applies to every vertex
				elevation = parseFloat(t.value)
				for i := range ent.Vertices {
					ent.Vertices[i].Z = elevation
				}
			}
		case "SPLINE":
			switch t.code {
			case 10:
				ent.ControlPoints = append(ent.ControlPoints, Point{X: parseFloat(t.value)})
			case 20:
				if n := len(ent.ControlPoints); n > 0 {
					ent.ControlPoints[n-1].Y = parseFloat(t.value)
				}
			case 30:
				if n := len(ent.ControlPoints); n > 0 {
					ent.ControlPoints[n-1].Z = parseFloat(t.value)
				}
			}
		case "INSERT":
			switch t.code {
			case 2:
				ent.BlockName = t.value
			case 10:
				ent.Insert.X = parseFloat(t.value)
			case 20:
				ent.Insert.Y = parseFloat(t.value)
			case 30:
				ent.Insert.Z = parseFloat(t.value)
			}
		case "TEXT":
			switch t.code {
			case 1:
				ent.Text = t.value
			case 10:
				ent.Insert.X = parseFloat(t.value)
			case 20:
				ent.Insert.Y = parseFloat(t.value)
			case 30:
				ent.Insert.Z = parseFloat(t.value)
			}
		case "MTEXT":
			switch t.code {
			case 1:
				mtextTail = append(mtextTail, t.value)
			case 3:
				mtextLead = append(mtextLead, t.value)
			case 10:
				ent.Insert.X = parseFloat(t.value)
			case 20:
				ent.Insert.Y = parseFloat(t.value)
			case 30:
				ent.Insert.Z = parseFloat(t.value)
			}
		case "CIRCLE", "ARC":
			switch t.code {
			case 10:
				ent.Center.X = parseFloat(t.value)
			case 20:
				ent.Center.Y = parseFloat(t.value)
			case 30:
				ent.Center.Z = parseFloat(t.value)
			case 40:
				ent.Radius = parseFloat(t.value)
			}
		}
	}

	if typ == "MTEXT" {
		ent.Text = strings.Join(append(mtextLead, mtextTail...), "")
	}
	return ent
}

// parseFloat is forgiving: coordinate fields with garbage in them parse
// as 0 rather than failing the whole document.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
