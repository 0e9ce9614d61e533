package domain

// ScoringMode tags which scorer produced the scores of a digest.
type ScoringMode string

const (
	ModeNone    ScoringMode = "none"
	ModeKeyword ScoringMode = "keyword"
	ModeRemote  ScoringMode = "remote"
)

// String implements fmt.Stringer.
func (m ScoringMode) String() string {
	return string(m)
}

// ScoringOutcome is the result of running the scoring strategy over a batch.
// Items keep the order they were handed to the scorer.
type ScoringOutcome struct {
	Mode  ScoringMode
	Items []Article
}

// ResponseMode maps the outcome mode onto the digest envelope field,
// which is absent when scoring was disabled.
func (o ScoringOutcome) ResponseMode() *ScoringMode {
	if o.Mode == "" || o.Mode == ModeNone {
		return nil
	}
	mode := o.Mode
	return &mode
}
