package export

import "io"

// BOMSkippingReader wraps an io.Reader and drops a leading UTF-8 BOM
// (0xEF 0xBB 0xBF) if present. Exports written by this package always
// carry one; readers of arbitrary CSV files may or may not see one.
type BOMSkippingReader struct {
	reader  io.Reader
	checked bool
	held    []byte // first bytes kept back when no BOM was found
}

// NewBOMSkippingReader creates a BOM-skipping reader over r.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: r}
}

// Read implements io.Reader. The first call inspects the leading three
// bytes; when they are not a BOM they are handed back before any further
// data from the underlying reader.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true

		var head [3]byte
		n, err := io.ReadFull(r.reader, head[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil && err != io.EOF {
			return 0, err
		}

		if !(n == 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF) {
			r.held = append(r.held, head[:n]...)
		}
	}

	if len(r.held) > 0 {
		copied := copy(p, r.held)
		r.held = r.held[copied:]
		return copied, nil
	}

	return r.reader.Read(p)
}
