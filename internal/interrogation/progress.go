package interrogation

// Progress is one milestone in an interrogation's execution.
type Progress struct {
	Label   string `json:"label"`
	Percent int    `json:"percent"`
}

// ProgressFunc receives ordered progress milestones. Percentages are
// monotonically non-decreasing; the same stage may report more than once.
type ProgressFunc func(Progress)

// reporter enforces monotone progress over an optional callback.
type reporter struct {
	fn   ProgressFunc
	last int
}

func newReporter(fn ProgressFunc) *reporter {
	return &reporter{fn: fn}
}

func (r *reporter) report(label string, percent int) {
	if percent < r.last {
		percent = r.last
	}
	r.last = percent

	if r.fn != nil {
		r.fn(Progress{Label: label, Percent: percent})
	}
}
