package engine

// Reason classifies why a command was rejected (or that it was applied).
// Rejections are ordinary return values, never errors or panics: the worst
// thing a command can do is get refused.
type Reason string

const (
	ReasonApplied        Reason = "Applied"
	ReasonNoop           Reason = "Noop"
	ReasonAlreadyDrafted Reason = "AlreadyDrafted"
	ReasonUnknownTeam    Reason = "UnknownTeam"
	ReasonUnknownPlayer  Reason = "UnknownPlayer"
	ReasonNotEligible    Reason = "NotEligible"
	ReasonNotOnTheClock  Reason = "NotOnTheClock"
	ReasonExceedsBudget  Reason = "ExceedsBudget"
	ReasonInvalidAmount  Reason = "InvalidAmount"
	ReasonDraftComplete  Reason = "DraftComplete"
	ReasonDraftPaused    Reason = "DraftPaused"
)

// Result reports the outcome of an engine transition.
type Result struct {
	OK     bool   `json:"ok"`
	Reason Reason `json:"reason"`
}

func applied() Result {
	return Result{OK: true, Reason: ReasonApplied}
}

func noop() Result {
	return Result{OK: true, Reason: ReasonNoop}
}

func rejected(r Reason) Result {
	return Result{OK: false, Reason: r}
}
