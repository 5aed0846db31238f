package text

// Corrector fixes spelling in a user question before classification and
// retrieval. Implementations are treated as pure text -> text functions.
type Corrector interface {
	Correct(text string) string
}

// ToxicityChecker reports whether a question should be refused. A checker
// that cannot decide must answer false: the bot prefers serving a rude
// question over refusing a polite one.
type ToxicityChecker interface {
	IsToxic(text string) bool
}

type noopCorrector struct{}

func NewNoopCorrector() Corrector { return noopCorrector{} }

func (noopCorrector) Correct(text string) string { return text }

type permissiveChecker struct{}

func NewPermissiveChecker() ToxicityChecker { return permissiveChecker{} }

func (permissiveChecker) IsToxic(string) bool { return false }
