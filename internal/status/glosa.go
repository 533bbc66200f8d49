package status

import "revcycle-engine/internal/domain"

var appealTransitions = map[domain.AppealStatus][]domain.AppealStatus{
	domain.AppealPending:    {domain.AppealInProgress, domain.AppealSent},
	domain.AppealInProgress: {domain.AppealSent},
	domain.AppealSent:       {domain.AppealAccepted, domain.AppealRejected},
}

// CanTransitionAppeal reports whether an appeal may move between two statuses.
func CanTransitionAppeal(from, to domain.AppealStatus) bool {
	for _, next := range appealTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AppealTextMutable reports whether the appeal text may still be edited.
// Once the appeal is sent the text is frozen.
func AppealTextMutable(s domain.AppealStatus) bool {
	return s == domain.AppealPending || s == domain.AppealInProgress
}

// AppealTerminal reports whether the appeal has reached a terminal state.
func AppealTerminal(s domain.AppealStatus) bool {
	return s == domain.AppealAccepted || s == domain.AppealRejected
}
