package application

import (
	"context"
	"sync"
	"time"

	"github.com/cuttestkittensrule/carepartner/internal/domain"
)

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

type fakeCredentialStore struct {
	mu             sync.Mutex
	refreshCalls   int
	refreshDelay   time.Duration
	refreshResult  domain.Credential
	refreshErr     error
	exchangeCalls  int
	exchangeResult domain.Credential
	exchangeErr    error
	saved          []domain.Credential
}

func (s *fakeCredentialStore) Load(_ context.Context) (domain.Credential, error) {
	return domain.Credential{}, domain.ErrNoCredential
}

func (s *fakeCredentialStore) Save(_ context.Context, cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, cred)
	return nil
}

func (s *fakeCredentialStore) Exchange(_ context.Context, _ domain.AuthorizationGrant) (domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchangeCalls++
	return s.exchangeResult, s.exchangeErr
}

func (s *fakeCredentialStore) Refresh(_ context.Context, _ domain.Credential) (domain.Credential, error) {
	s.mu.Lock()
	s.refreshCalls++
	delay := s.refreshDelay
	result, err := s.refreshResult, s.refreshErr
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return result, err
}

func (s *fakeCredentialStore) refreshCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshCalls
}

type recordRequest struct {
	userID string
	kinds  []domain.RecordKind
	start  time.Time
	end    time.Time
}

type fakeDataClient struct {
	mu          sync.Mutex
	userID      string
	trusts      []domain.TrustRelationship
	trustsErr   error
	recordsFn   func(userID string, kinds []domain.RecordKind, start, end time.Time) ([]domain.Record, error)
	invitesFn   func() ([]domain.Invitation, error)
	requests    []recordRequest
	responses   []string
}

func (c *fakeDataClient) CurrentUserID(_ context.Context, _ string) (string, error) {
	if c.userID == "" {
		return "viewer-1", nil
	}
	return c.userID, nil
}

func (c *fakeDataClient) ListTrustRelationships(_ context.Context, _, _ string) ([]domain.TrustRelationship, error) {
	if c.trustsErr != nil {
		return nil, c.trustsErr
	}
	return c.trusts, nil
}

func (c *fakeDataClient) ListRecords(_ context.Context, _, userID string, kinds []domain.RecordKind, start, end time.Time) ([]domain.Record, error) {
	c.mu.Lock()
	c.requests = append(c.requests, recordRequest{userID: userID, kinds: kinds, start: start, end: end})
	c.mu.Unlock()

	if c.recordsFn == nil {
		return nil, nil
	}
	return c.recordsFn(userID, kinds, start, end)
}

func (c *fakeDataClient) ListPendingInvitations(_ context.Context, _, _ string) ([]domain.Invitation, error) {
	if c.invitesFn == nil {
		return nil, nil
	}
	return c.invitesFn()
}

func (c *fakeDataClient) RespondToInvitation(_ context.Context, _, _ string, inv domain.Invitation, accept bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	action := "reject"
	if accept {
		action = "accept"
	}
	c.responses = append(c.responses, action+":"+inv.Key)
	return nil
}

func (c *fakeDataClient) recordedRequests() []recordRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]recordRequest(nil), c.requests...)
}

type recordingSummarySink struct {
	mu        sync.Mutex
	published []domain.SummaryMap
}

func (s *recordingSummarySink) PublishSummaries(summaries domain.SummaryMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, summaries)
}

func (s *recordingSummarySink) snapshots() []domain.SummaryMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SummaryMap(nil), s.published...)
}

type recordingInvitationSink struct {
	mu        sync.Mutex
	published [][]domain.Invitation
}

func (s *recordingInvitationSink) PublishInvitations(invitations []domain.Invitation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, invitations)
}

func (s *recordingInvitationSink) snapshots() [][]domain.Invitation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]domain.Invitation(nil), s.published...)
}

// validGuard returns a TokenGuard whose token never expires during a test.
func validGuard(clock fixedClock) *TokenGuard {
	return NewTokenGuard(&fakeCredentialStore{}, clock, nil, domain.Credential{
		AccessToken: "token-1",
		Expiry:      clock.now.Add(time.Hour),
	})
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func floatPtr(v float64) *float64 {
	return &v
}
