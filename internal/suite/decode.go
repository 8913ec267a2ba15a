package suite

import (
	"fmt"
	"math"
	"strconv"

	"lumen/internal/constant"
	"lumen/internal/number"
	"lumen/internal/types"
)

// decoder turns operand values of a suite into constants of an arena.
type decoder struct {
	in    *types.Interner
	arena *constant.Arena
}

// operand decodes the value of op, whose type ty the caller has parsed. A
// runtime operand yields constant.NoID.
func (d *decoder) operand(ty types.TypeID, op Operand) (constant.ID, error) {
	if op.Runtime {
		if op.Value != nil {
			return constant.NoID, fmt.Errorf("runtime operand must not have a value")
		}
		return constant.NoID, nil
	}
	if op.Value == nil {
		return constant.NoID, fmt.Errorf("operand of type %s has no value", d.in.FriendlyName(ty))
	}
	return d.value(ty, op.Value)
}

func (d *decoder) value(ty types.TypeID, raw any) (constant.ID, error) {
	tt := d.in.MustLookup(ty)
	switch tt.Kind {
	case types.KindVector:
		if _, isList := raw.([]any); !isList {
			el, err := d.value(tt.Elem, raw)
			if err != nil {
				return constant.NoID, err
			}
			return d.arena.Splat(ty, el, tt.Count), nil
		}
		return d.list(ty, raw, tt.Count, func(int) types.TypeID { return tt.Elem })
	case types.KindMatrix:
		col := d.in.ColumnType(ty)
		return d.list(ty, raw, tt.Count, func(int) types.TypeID { return col })
	case types.KindArray:
		if tt.Count == types.ArrayRuntimeLength {
			return constant.NoID, fmt.Errorf("%s has no constant value", d.in.FriendlyName(ty))
		}
		return d.list(ty, raw, tt.Count, func(int) types.TypeID { return tt.Elem })
	case types.KindStruct:
		return d.structValue(ty, raw)
	}
	v, err := d.scalar(d.in.ScalarKind(ty), raw)
	if err != nil {
		return constant.NoID, err
	}
	return d.arena.Element(ty, v), nil
}

func (d *decoder) list(ty types.TypeID, raw any, n uint32, elem func(int) types.TypeID) (constant.ID, error) {
	items, ok := raw.([]any)
	if !ok {
		return constant.NoID, fmt.Errorf("%s needs a list of %d values, got %T", d.in.FriendlyName(ty), n, raw)
	}
	if len(items) != int(n) {
		return constant.NoID, fmt.Errorf("%s needs %d values, got %d", d.in.FriendlyName(ty), n, len(items))
	}
	children := make([]constant.ID, len(items))
	for i, it := range items {
		id, err := d.value(elem(i), it)
		if err != nil {
			return constant.NoID, fmt.Errorf("element %d: %w", i, err)
		}
		children[i] = id
	}
	return d.arena.CreateComposite(ty, children), nil
}

func (d *decoder) structValue(ty types.TypeID, raw any) (constant.ID, error) {
	members := d.in.Members(ty)
	name := d.in.FriendlyName(ty)
	switch v := raw.(type) {
	case []any:
		return d.list(ty, raw, uint32(len(members)), func(i int) types.TypeID { return members[i].Type }) //nolint:gosec // G115: member counts are small.
	case map[string]any:
		if len(v) != len(members) {
			return constant.NoID, fmt.Errorf("%s needs %d members, got %d", name, len(members), len(v))
		}
		children := make([]constant.ID, len(members))
		for i, m := range members {
			mname := d.in.Strings().MustLookup(m.Name)
			mraw, ok := v[mname]
			if !ok {
				return constant.NoID, fmt.Errorf("%s: missing member %q", name, mname)
			}
			id, err := d.value(m.Type, mraw)
			if err != nil {
				return constant.NoID, fmt.Errorf("member %s: %w", mname, err)
			}
			children[i] = id
		}
		return d.arena.CreateComposite(ty, children), nil
	}
	return constant.NoID, fmt.Errorf("%s needs a list or a table, got %T", name, raw)
}

// scalar checks raw against kind k. Strings are accepted for integers in
// any base (0xFF) and for hexadecimal floats.
func (d *decoder) scalar(k number.Kind, raw any) (number.Value, error) {
	if k == number.KindBool {
		b, ok := raw.(bool)
		if !ok {
			return number.Value{}, fmt.Errorf("bool value expected, got %T", raw)
		}
		return number.Bool(b), nil
	}

	var src number.Value
	switch v := raw.(type) {
	case int:
		src = number.AInt(int64(v))
	case int64:
		src = number.AInt(v)
	case uint64:
		if v > math.MaxInt64 {
			return number.Value{}, fmt.Errorf("value %d out of range", v)
		}
		src = number.AInt(int64(v))
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return number.Value{}, fmt.Errorf("value %v is not finite", v)
		}
		if k.IsInteger() {
			return number.Value{}, fmt.Errorf("%s value expected, got float %v", k, v)
		}
		src = number.AFloat(v)
	case string:
		parsed, err := parseNumber(k, v)
		if err != nil {
			return number.Value{}, err
		}
		src = parsed
	default:
		return number.Value{}, fmt.Errorf("%s value expected, got %T", k, raw)
	}

	out, status := number.CheckedConvert(src, k)
	if status != number.ConvOK {
		return number.Value{}, fmt.Errorf("value %s does not fit %s", src, k)
	}
	return out, nil
}

func parseNumber(k number.Kind, s string) (number.Value, error) {
	if k.IsInteger() {
		i, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return number.Value{}, fmt.Errorf("bad %s value %q: %w", k, s, err)
		}
		return number.AInt(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return number.Value{}, fmt.Errorf("bad %s value %q: %w", k, s, err)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return number.Value{}, fmt.Errorf("value %q is not finite", s)
	}
	return number.AFloat(f), nil
}
