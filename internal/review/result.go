package review

// Result is the closed set of decisions a reviewer can make on a suggestion.
// The numeric values are part of the callback payload wire format and must not
// be reordered.
type Result int8

const (
	// ResultNone means no decision was made; the queue moves on without
	// persisting anything.
	ResultNone Result = iota
	ResultApproved
	ResultDeclinedLowQuality
	ResultDeclinedDoesNotFit
	ResultDeclinedTooSimilar
	ResultDeclinedOther
	ResultBanned
)

// Description returns the fixed human-readable text for a result. It is used
// verbatim for review buttons, caption updates and submitter notifications.
func (r Result) Description() string {
	switch r {
	case ResultNone:
		return "Skip"
	case ResultApproved:
		return "Approved"
	case ResultDeclinedLowQuality:
		return "Low quality."
	case ResultDeclinedDoesNotFit:
		return "Does not fit."
	case ResultDeclinedTooSimilar:
		return "Too similar to an existing sticker."
	case ResultDeclinedOther:
		return "Personal preferences or other reasons."
	case ResultBanned:
		return "Ban"
	default:
		return "Unknown"
	}
}

// String returns the stable tag stored in the suggestion status field.
func (r Result) String() string {
	switch r {
	case ResultNone:
		return "none"
	case ResultApproved:
		return "approved"
	case ResultDeclinedLowQuality:
		return "declined_low_quality"
	case ResultDeclinedDoesNotFit:
		return "declined_does_not_fit"
	case ResultDeclinedTooSimilar:
		return "declined_too_similar"
	case ResultDeclinedOther:
		return "declined_other"
	case ResultBanned:
		return "banned"
	default:
		return "unknown"
	}
}

// Valid reports whether r is a member of the vocabulary.
func (r Result) Valid() bool {
	return r >= ResultNone && r <= ResultBanned
}

// IsDecline reports whether r is one of the decline reasons.
func (r Result) IsDecline() bool {
	return r >= ResultDeclinedLowQuality && r <= ResultDeclinedOther
}

// DecisionValues returns every result a reviewer can pick, in button order.
// ResultNone is excluded; skipping is not a decision.
func DecisionValues() []Result {
	return []Result{
		ResultApproved,
		ResultDeclinedLowQuality,
		ResultDeclinedDoesNotFit,
		ResultDeclinedTooSimilar,
		ResultDeclinedOther,
		ResultBanned,
	}
}
