package suite

import "time"

// Stage describes a phase of running one suite file.
type Stage string

const (
	// StageLoad reads and decodes the suite file.
	StageLoad Stage = "load"
	// StageCache looks the suite up in the result cache.
	StageCache Stage = "cache"
	// StageEvaluate runs the cases.
	StageEvaluate Stage = "evaluate"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the suite is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the suite is in progress.
	StatusWorking Status = "working"
	// StatusDone indicates every case passed.
	StatusDone Status = "done"
	// StatusFailed indicates at least one case did not pass.
	StatusFailed Status = "failed"
	// StatusError indicates the suite could not be run.
	StatusError Status = "error"
)

// Event reports progress for a suite file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Done    int // кейсов обработано
	Total   int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// Outcome is the verdict of one case.
type Outcome string

const (
	// OutcomePass means the case met its expectation.
	OutcomePass Outcome = "pass"
	// OutcomeFail means the evaluator disagreed with the expectation.
	OutcomeFail Outcome = "fail"
	// OutcomeError means the case itself is malformed.
	OutcomeError Outcome = "error"
)

func (o Outcome) String() string { return string(o) }

// CaseResult is the record of one evaluated case.
type CaseResult struct {
	Name    string  `msgpack:"name" json:"name"`
	Expr    string  `msgpack:"expr" json:"expr"`
	Outcome Outcome `msgpack:"outcome" json:"outcome"`
	// Got is the rendered constant, RuntimeValue or FailedValue.
	Got    string `msgpack:"got" json:"got"`
	Detail string `msgpack:"detail,omitempty" json:"detail,omitempty"`
}

// Rendered results that are not constants.
const (
	RuntimeValue = "<runtime>"
	FailedValue  = "<error>"
)

// Result is the record of one suite file. It carries the rendered
// expression file and position-independent diagnostics, so a cached Result
// renders exactly like a fresh one.
type Result struct {
	Path   string       `msgpack:"path" json:"path"`
	Suite  string       `msgpack:"suite" json:"suite"`
	Source string       `msgpack:"source" json:"-"`
	Cases  []CaseResult `msgpack:"cases" json:"cases"`
	Diags  []Record     `msgpack:"diags" json:"-"`
	Cached bool         `msgpack:"-" json:"cached"`
	// LoadErr is set when the suite file could not be read or decoded.
	LoadErr string `msgpack:"load_err,omitempty" json:"load_error,omitempty"`
}

// Counts returns the number of cases per outcome.
func (r *Result) Counts() (pass, fail, errs int) {
	for _, c := range r.Cases {
		switch c.Outcome {
		case OutcomePass:
			pass++
		case OutcomeFail:
			fail++
		default:
			errs++
		}
	}
	return pass, fail, errs
}

// OK reports whether the suite loaded and every case passed.
func (r *Result) OK() bool {
	if r.LoadErr != "" {
		return false
	}
	_, fail, errs := r.Counts()
	return fail == 0 && errs == 0
}

// Status is the final progress status of the suite.
func (r *Result) Status() Status {
	switch {
	case r.LoadErr != "":
		return StatusError
	case r.OK():
		return StatusDone
	default:
		return StatusFailed
	}
}
