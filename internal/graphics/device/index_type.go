package device

// IndexType is the integer width of an element buffer range.
type IndexType int

const (
	UnsignedByte IndexType = iota
	UnsignedShort
	UnsignedInt
)

// IndexTypeCount is the number of index widths.
const IndexTypeCount = 3

// IndexTypes lists every index width in ordinal order.
var IndexTypes = [IndexTypeCount]IndexType{UnsignedByte, UnsignedShort, UnsignedInt}

// Stride returns the size of one index in bytes.
func (t IndexType) Stride() int {
	switch t {
	case UnsignedByte:
		return 1
	case UnsignedShort:
		return 2
	default:
		return 4
	}
}

// MaxVertexCount is the number of distinct vertices addressable with this width.
func (t IndexType) MaxVertexCount() int {
	switch t {
	case UnsignedByte:
		return 1 << 8
	case UnsignedShort:
		return 1 << 16
	default:
		return 1<<31 - 1
	}
}

func (t IndexType) String() string {
	switch t {
	case UnsignedByte:
		return "u8"
	case UnsignedShort:
		return "u16"
	default:
		return "u32"
	}
}

// IndexTypeForVertexCount picks the narrowest width able to address n vertices.
func IndexTypeForVertexCount(n int) IndexType {
	for _, t := range IndexTypes {
		if n <= t.MaxVertexCount() {
			return t
		}
	}
	return UnsignedInt
}

// PutIndex writes v at dst using the width of t (little endian).
func (t IndexType) PutIndex(dst []byte, v uint32) {
	switch t {
	case UnsignedByte:
		dst[0] = byte(v)
	case UnsignedShort:
		dst[0] = byte(v)
		dst[1] = byte(v >> 8)
	default:
		dst[0] = byte(v)
		dst[1] = byte(v >> 8)
		dst[2] = byte(v >> 16)
		dst[3] = byte(v >> 24)
	}
}
