package ports

import "github.com/cuttestkittensrule/carepartner/internal/domain"

// SummarySink receives each published summary snapshot. The map handed over
// is a private copy; the sink may keep it without copying again.
type SummarySink interface {
	PublishSummaries(summaries domain.SummaryMap)
}

// InvitationSink receives the pending invitation set, published only when it
// changed since the previous publication.
type InvitationSink interface {
	PublishInvitations(invitations []domain.Invitation)
}
