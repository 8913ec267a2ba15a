package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event; lower is coarser.
type Scope uint8

const (
	ScopeRun   Scope = iota + 1 // one CLI invocation
	ScopeSuite                  // one suite file (one evaluation session)
	ScopeCase                   // one case of a suite
	ScopeNode                   // one evaluator dispatch
)

func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopeSuite:
		return "suite"
	case ScopeCase:
		return "case"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the tracer that stores the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	GID      uint64
	Name     string // "eval", "suite:arith.toml", "binary +"
	Detail   string
	Extra    map[string]string
}
