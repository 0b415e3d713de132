package pattern

// Error reports input that could not be parsed. Any Error makes the run fail.
type Error struct {
	Source  string `json:"source,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Type() PatternType { return PatternTypeError }
