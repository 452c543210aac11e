package model

// View is one of the mutually exclusive screens of the client
type View int

const (
	ViewHero View = iota
	ViewProgress
	ViewReview
	ViewResults
	ViewError
)

func (v View) String() string {
	switch v {
	case ViewHero:
		return "hero"
	case ViewProgress:
		return "progress"
	case ViewReview:
		return "review"
	case ViewResults:
		return "results"
	case ViewError:
		return "error"
	default:
		return "unknown"
	}
}
