package domain

// Verdict is the human readable outcome of a config check.
type Verdict string

const (
	VerdictFine          Verdict = "fine"
	VerdictMismatched    Verdict = "mismatched"
	VerdictMisconfigured Verdict = "misconfigured"
	VerdictBroken        Verdict = "broken"
)

func (v Verdict) String() string {
	return string(v)
}

// Working reports whether the channel answered commands when the verdict was made.
func (v Verdict) Working() bool {
	return v == VerdictFine || v == VerdictMismatched
}
