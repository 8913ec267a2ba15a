package consteval

import (
	"lumen/internal/constant"
	"lumen/internal/number"
	"lumen/internal/source"
	"lumen/internal/types"
)

// matrix is a column-major view of a matrix constant.
type matrix struct {
	cols, rows uint32
	m          [][]number.Value // m[c][r]
}

func (e *Evaluator) matrixOf(id constant.ID) matrix {
	n := e.arena.Len(id)
	out := matrix{cols: n, m: make([][]number.Value, n)}
	for c := range n {
		out.m[c] = e.values(e.arena.Index(id, c))
	}
	if n > 0 {
		out.rows = uint32(len(out.m[0])) //nolint:gosec // G115: column height came from a uint32.
	}
	return out
}

func (m matrix) row(r uint32) []number.Value {
	out := make([]number.Value, m.cols)
	for c := range m.cols {
		out[c] = m.m[c][r]
	}
	return out
}

// dotElement builds a scalar of type elem from dot(a, b).
func (e *Evaluator) dotElement(sp source.Span, elem types.TypeID, a, b []number.Value) (constant.ID, bool) {
	r, ok := e.dot(sp, a, b)
	if !ok {
		return constant.NoID, false
	}
	return e.element(sp, elem, r)
}

// OpMultiplyMatVec is matCxR * vecC: one dot product per matrix row.
func (e *Evaluator) OpMultiplyMatVec(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("mat * vec", args, 2, types.FamilyNumeric, sp, func() (constant.ID, bool) {
		m := e.matrixOf(args[0])
		v := e.values(args[1])
		elem := e.types.DeepestElementOf(ty)
		els := make([]constant.ID, m.rows)
		for r := range m.rows {
			el, ok := e.dotElement(sp, elem, m.row(r), v)
			if !ok {
				return e.noteOnFail(constant.NoID, false, sp, "matrix-vector multiplication")
			}
			els[r] = el
		}
		return e.arena.CreateComposite(ty, els), true
	})
}

// OpMultiplyVecMat is vecR * matCxR: one dot product per matrix column.
func (e *Evaluator) OpMultiplyVecMat(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("vec * mat", args, 2, types.FamilyNumeric, sp, func() (constant.ID, bool) {
		v := e.values(args[0])
		m := e.matrixOf(args[1])
		elem := e.types.DeepestElementOf(ty)
		els := make([]constant.ID, m.cols)
		for c := range m.cols {
			el, ok := e.dotElement(sp, elem, m.m[c], v)
			if !ok {
				return e.noteOnFail(constant.NoID, false, sp, "vector-matrix multiplication")
			}
			els[c] = el
		}
		return e.arena.CreateComposite(ty, els), true
	})
}

// OpMultiplyMatMat is matKxR * matCxK, giving matCxR.
func (e *Evaluator) OpMultiplyMatMat(ty types.TypeID, args []constant.ID, sp source.Span) (constant.ID, bool) {
	return e.guard("mat * mat", args, 2, types.FamilyNumeric, sp, func() (constant.ID, bool) {
		m1 := e.matrixOf(args[0])
		m2 := e.matrixOf(args[1])
		elem := e.types.DeepestElementOf(ty)
		colTy := e.types.ColumnType(ty)
		cols := make([]constant.ID, m2.cols)
		for c := range m2.cols {
			col := make([]constant.ID, m1.rows)
			for r := range m1.rows {
				el, ok := e.dotElement(sp, elem, m1.row(r), m2.m[c])
				if !ok {
					return e.noteOnFail(constant.NoID, false, sp, "matrix multiplication")
				}
				col[r] = el
			}
			cols[c] = e.arena.CreateComposite(colTy, col)
		}
		return e.arena.CreateComposite(ty, cols), true
	})
}
