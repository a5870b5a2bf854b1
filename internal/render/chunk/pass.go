package chunk

// Pass is a block render pass.
type Pass int

const (
	PassSolid Pass = iota
	PassCutout
	PassTranslucent
)

// PassCount is the number of render passes.
const PassCount = 3

// Passes lists the passes in draw order.
var Passes = [PassCount]Pass{PassSolid, PassCutout, PassTranslucent}

// IsTranslucent reports whether the pass is blended and drawn back to front.
func (p Pass) IsTranslucent() bool {
	return p == PassTranslucent
}

func (p Pass) String() string {
	switch p {
	case PassSolid:
		return "solid"
	case PassCutout:
		return "cutout"
	default:
		return "translucent"
	}
}
