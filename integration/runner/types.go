package runner

import "time"

// TestSuite is a sequence of API calls against a running server. A suite
// with Cases only references other case files.
type TestSuite struct {
	Name  string     `json:"name"`
	Steps []TestStep `json:"steps,omitempty"`
	Cases []string   `json:"cases,omitempty"`
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep is one HTTP request and what its response must look like.
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Method       string       `json:"method,omitempty"` // defaults to GET
	Path         string       `json:"path"`
	Expectations Expectations `json:"expect"`
}

// Expectations are checked against the response of a step.
type Expectations struct {
	Status int `json:"status,omitempty"` // defaults to 200

	// JSON maps dotted paths ("bracket.id", "wrapped.bracket.chalkScore.shareId")
	// to the value expected there. Array elements are addressed by index.
	JSON map[string]any `json:"json,omitempty"`
	// Present lists dotted paths that must exist, whatever their value.
	Present []string `json:"present,omitempty"`
	// Absent lists dotted paths that must not exist.
	Absent []string `json:"absent,omitempty"`

	// ArrayLen checks the length of the array at a dotted path. An empty
	// path means the response body itself.
	ArrayLen map[string]int `json:"array_len,omitempty"`

	BodyContains    []string `json:"body_contains,omitempty"`
	BodyNotContains []string `json:"body_not_contains,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName string
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
}

// TestJob represents a test suite loaded from a case file
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
}
