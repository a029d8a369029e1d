package submission

// OutcomeKind classifies the result of one commit attempt against the
// remote store. Distinguishing AlreadyCommitted from Rejected from
// Transient is what makes at-least-once delivery safe: a record whose
// acknowledgment was lost must neither be resubmitted forever nor given
// up on.
type OutcomeKind int

const (
	// OutcomeCommitted means the server accepted and durably stored the record.
	OutcomeCommitted OutcomeKind = iota

	// OutcomeAlreadyCommitted means the server reported a conflict on the
	// idempotency key: a prior attempt succeeded but the acknowledgment was
	// lost. Treated as success.
	OutcomeAlreadyCommitted

	// OutcomeRejected means the server declared the payload permanently
	// invalid. Retrying will never succeed.
	OutcomeRejected

	// OutcomeTransient means a network error, timeout or server-side failure.
	// Retrying later may succeed.
	OutcomeTransient
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCommitted:
		return "committed"
	case OutcomeAlreadyCommitted:
		return "already_committed"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTransient:
		return "transient_failure"
	default:
		return "unknown"
	}
}

// Outcome is the typed result of a single submission attempt.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}

// Success reports whether the record is durably stored on the server,
// whether this attempt stored it or a previous one did.
func (o Outcome) Success() bool {
	return o.Kind == OutcomeCommitted || o.Kind == OutcomeAlreadyCommitted
}

// Terminal reports whether retrying this outcome can ever change it.
func (o Outcome) Terminal() bool {
	return o.Kind != OutcomeTransient
}

func Committed() Outcome {
	return Outcome{Kind: OutcomeCommitted}
}

func AlreadyCommitted() Outcome {
	return Outcome{Kind: OutcomeAlreadyCommitted}
}

func Rejected(reason string) Outcome {
	return Outcome{Kind: OutcomeRejected, Reason: reason}
}

func Transient(reason string) Outcome {
	return Outcome{Kind: OutcomeTransient, Reason: reason}
}
