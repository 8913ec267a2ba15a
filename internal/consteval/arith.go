package consteval

import (
	"lumen/internal/diag"
	"lumen/internal/number"
	"lumen/internal/source"
)

// Scalar arithmetic with diagnostics. The number package decides what is
// representable; these wrappers only word the failure.

func (e *Evaluator) overflow(sp source.Span, a number.Value, op string, b number.Value) {
	e.report(diag.ConstOverflow, sp, "'%s %s %s' cannot be represented as '%s'", a, op, b, a.Kind())
}

func (e *Evaluator) add(sp source.Span, a, b number.Value) (number.Value, bool) {
	r, ok := number.Add(a, b)
	if !ok {
		e.overflow(sp, a, "+", b)
	}
	return r, ok
}

func (e *Evaluator) sub(sp source.Span, a, b number.Value) (number.Value, bool) {
	r, ok := number.Sub(a, b)
	if !ok {
		e.overflow(sp, a, "-", b)
	}
	return r, ok
}

func (e *Evaluator) mul(sp source.Span, a, b number.Value) (number.Value, bool) {
	r, ok := number.Mul(a, b)
	if !ok {
		e.overflow(sp, a, "*", b)
	}
	return r, ok
}

func (e *Evaluator) div(sp source.Span, a, b number.Value) (number.Value, bool) {
	r, ok := number.Div(a, b)
	if !ok {
		e.report(divisionCode(a, b), sp, "'%s / %s' cannot be represented as '%s'", a, b, a.Kind())
	}
	return r, ok
}

func (e *Evaluator) mod(sp source.Span, a, b number.Value) (number.Value, bool) {
	r, ok := number.Mod(a, b)
	if !ok {
		e.report(divisionCode(a, b), sp, "'%s %% %s' cannot be represented as '%s'", a, b, a.Kind())
	}
	return r, ok
}

func divisionCode(a, b number.Value) diag.Code {
	switch {
	case b.Float64() == 0:
		return diag.ConstDivideByZero
	case a.Kind().IsInteger() && b.Int() == -1:
		return diag.ConstSignedOverflowDivision
	}
	return diag.ConstOverflow
}

// dot is a[0]*b[0] + a[1]*b[1] + ...; all products are formed before the
// sum.
func (e *Evaluator) dot(sp source.Span, a, b []number.Value) (number.Value, bool) {
	prods := make([]number.Value, len(a))
	for i := range a {
		p, ok := e.mul(sp, a[i], b[i])
		if !ok {
			return p, false
		}
		prods[i] = p
	}
	r := prods[0]
	for _, p := range prods[1:] {
		var ok bool
		if r, ok = e.add(sp, r, p); !ok {
			return r, false
		}
	}
	return r, true
}

// det2 is the determinant of the column-major matrix | a c | over | b d |.
func (e *Evaluator) det2(sp source.Span, a, b, c, d number.Value) (number.Value, bool) {
	ad, ok := e.mul(sp, a, d)
	if !ok {
		return ad, false
	}
	cb, ok := e.mul(sp, c, b)
	if !ok {
		return cb, false
	}
	return e.sub(sp, ad, cb)
}

// det3 expands the column-major 3x3 matrix m along its first row.
func (e *Evaluator) det3(sp source.Span, m []number.Value) (number.Value, bool) {
	a, b, c := m[0], m[1], m[2]
	d, ee, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]

	terms := [3]number.Value{}
	minors := [3][4]number.Value{
		{ee, f, h, i},
		{b, c, h, i},
		{b, c, ee, f},
	}
	for k, lead := range [3]number.Value{a, d, g} {
		det, ok := e.det2(sp, minors[k][0], minors[k][1], minors[k][2], minors[k][3])
		if !ok {
			return det, false
		}
		if terms[k], ok = e.mul(sp, lead, det); !ok {
			return terms[k], false
		}
	}
	r, ok := e.sub(sp, terms[0], terms[1])
	if !ok {
		return r, false
	}
	return e.add(sp, r, terms[2])
}

// det4 expands the column-major 4x4 matrix m along its first row.
func (e *Evaluator) det4(sp source.Span, m []number.Value) (number.Value, bool) {
	col := func(c int) []number.Value { return m[c*4 : c*4+4] }
	// minor drops row 0 and column skip.
	minor := func(skip int) []number.Value {
		out := make([]number.Value, 0, 9)
		for c := range 4 {
			if c == skip {
				continue
			}
			out = append(out, col(c)[1:]...)
		}
		return out
	}
	var terms [4]number.Value
	for k := range 4 {
		det, ok := e.det3(sp, minor(k))
		if !ok {
			return det, false
		}
		if terms[k], ok = e.mul(sp, col(k)[0], det); !ok {
			return terms[k], false
		}
	}
	r, ok := e.sub(sp, terms[0], terms[1])
	if !ok {
		return r, false
	}
	if r, ok = e.add(sp, r, terms[2]); !ok {
		return r, false
	}
	return e.sub(sp, r, terms[3])
}
