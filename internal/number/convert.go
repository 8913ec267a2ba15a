package number

// ConvStatus describes the outcome of CheckedConvert.
type ConvStatus uint8

const (
	ConvOK ConvStatus = iota
	// ConvTooSmall means the source is below the target's Lowest.
	ConvTooSmall
	// ConvTooLarge means the source is above the target's Highest.
	ConvTooLarge
)

const twoPow63 = 9223372036854775808.0

// CheckedConvert converts a numeric value to kind to. Range checks run in
// float64 when either side is floating and in int64 otherwise. In-range
// float targets round to the target precision, in-range integer targets
// truncate toward zero.
func CheckedConvert(v Value, to Kind) (Value, ConvStatus) {
	if v.kind == to {
		return v, ConvOK
	}
	if to.IsFloat() || v.kind.IsFloat() {
		x := v.Float64()
		hi, lo := Highest(to).Float64(), Lowest(to).Float64()
		switch {
		case x > hi || (to == KindAbstractInt && x >= twoPow63):
			return Value{}, ConvTooLarge
		case x < lo:
			return Value{}, ConvTooSmall
		}
		if to.IsFloat() {
			return Float(to, x), ConvOK
		}
		return Int(to, int64(x)), ConvOK
	}
	x := v.i
	switch {
	case x > Highest(to).i:
		return Value{}, ConvTooLarge
	case x < Lowest(to).i:
		return Value{}, ConvTooSmall
	}
	return Int(to, x), ConvOK
}
