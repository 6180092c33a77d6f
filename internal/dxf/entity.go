// Package dxf reads the ASCII DXF drawing-exchange format.
//
// The reader covers the subset this service consumes: the ENTITIES
// section of a drawing, the common entity attributes (handle, layer),
// per-kind geometry, and extended entity data (XDATA). Everything else
// in the file is scanned over and ignored.
package dxf

import "strings"

// Point is a 3D coordinate. Entities that only carry 2D data leave Z at 0.
type Point struct {
	X, Y, Z float64
}

// XDataValue is a single extended-data tag: a group code paired with its
// raw string value. Codes 1000-1071 are valid XDATA codes; 1000 marks an
// ASCII string value.
type XDataValue struct {
	Code  int
	Value string
}

// XDataGroup holds the ordered XDATA tags registered under one
// application id (group code 1001).
type XDataGroup struct {
	AppID  string
	Values []XDataValue
}

// Entity is one drawable primitive from the ENTITIES section.
//
// Type is the raw DXF entity name (LINE, CIRCLE, TEXT, ...). Unknown
// entity names are preserved as-is; only the geometry fields relevant to
// the recognized kinds are populated.
type Entity struct {
	Type   string
	Handle string
	Layer  string

	// LINE
	Start Point
	End   Point

	// INSERT, TEXT, MTEXT
	Insert Point

	// CIRCLE, ARC
	Center Point
	Radius float64

	// POLYLINE, LWPOLYLINE
	Vertices []Point

	// SPLINE
	ControlPoints []Point

	// INSERT
	BlockName string

	// TEXT, MTEXT (raw, with inline formatting codes for MTEXT)
	Text string

	// XDATA groups in file order.
	XData []XDataGroup
}

// HasXData reports whether the entity carries any extended data.
func (e *Entity) HasXData() bool {
	return len(e.XData) > 0
}

// PlainText returns the entity text with MTEXT inline formatting removed:
// paragraph breaks become newlines, formatting directives such as font,
// height and color changes are dropped, stacked fractions keep their
// content, and escaped characters are unescaped. For TEXT entities the
// text is returned unchanged.
func (e *Entity) PlainText() string {
	if e.Type != "MTEXT" {
		return e.Text
	}
	return stripMTextFormatting(e.Text)
}

// stripMTextFormatting removes the inline formatting language embedded in
// MTEXT content. The grammar is small: backslash escapes, brace groups,
// and parameterized directives terminated by a semicolon.
func stripMTextFormatting(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '{', '}':
			// group braces carry no text
		case '\\':
			if i+1 >= len(runes) {
				b.WriteRune(r)
				break
			}
			i++
			switch c := runes[i]; c {
			case 'P', 'p':
				b.WriteByte('\n')
			case '~':
				b.WriteByte(' ')
			case '\\', '{', '}':
				b.WriteRune(c)
			case 'L', 'l', 'O', 'o', 'K', 'k':
				// underline/overline/strike toggles, no text
			case 'S':
				// stacked fraction, keep both parts with a normalized
				// separator ("\S1^ 2;" renders as "1/2")
				for i+1 < len(runes) && runes[i+1] != ';' {
					i++
					switch c := runes[i]; c {
					case '^', '#', '/':
						b.WriteByte('/')
						if c == '^' && i+1 < len(runes) && runes[i+1] == ' ' {
							i++
						}
					default:
						b.WriteRune(c)
					}
				}
				if i+1 < len(runes) {
					i++
				}
			case 'f', 'F', 'H', 'h', 'Q', 'W', 'C', 'c', 'T', 'A':
				// parameterized directive, skip through the terminator
				for i+1 < len(runes) && runes[i+1] != ';' {
					i++
				}
				if i+1 < len(runes) {
					i++
				}
			default:
				b.WriteRune(c)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Document is a parsed drawing. It owns the modelspace entities in file
// order and is discarded after use; the reader never caches documents.
type Document struct {
	entities []*Entity
}

// Modelspace returns the entities of the drawing's model space in the
// order they appear in the file.
func (d *Document) Modelspace() []*Entity {
	return d.entities
}
