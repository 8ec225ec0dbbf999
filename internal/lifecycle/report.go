package lifecycle

// Report is the outcome vector of one workflow run, in step order.
type Report struct {
	Workflow string
	Outcomes []Outcome
}

// Fatal returns the critical failure that halted the run, or nil.
func (r Report) Fatal() *Outcome {
	for i := range r.Outcomes {
		if r.Outcomes[i].Status == StatusFailedFatal {
			return &r.Outcomes[i]
		}
	}
	return nil
}

// FatalErr is the error of the halting step, or nil.
func (r Report) FatalErr() error {
	if f := r.Fatal(); f != nil {
		return f.Err
	}
	return nil
}

// Failed lists the recoverable failures.
func (r Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailedRecoverable {
			out = append(out, o)
		}
	}
	return out
}

// Succeeded is true when no critical step failed.
func (r Report) Succeeded() bool {
	return r.Fatal() == nil
}

// Clean is true when every step succeeded.
func (r Report) Clean() bool {
	for _, o := range r.Outcomes {
		if o.Status != StatusSucceeded {
			return false
		}
	}
	return true
}

func (r Report) Outcome(step string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Step == step {
			return o, true
		}
	}
	return Outcome{}, false
}
