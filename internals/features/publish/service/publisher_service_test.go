// file: internals/features/publish/service/publisher_service_test.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolchamps_backend/internals/constants"
	blogsvc "schoolchamps_backend/internals/features/blogs/service"
	creditModel "schoolchamps_backend/internals/features/credits/model"
	ledgersvc "schoolchamps_backend/internals/features/credits/service"
	"schoolchamps_backend/internals/features/workflow"
)

/* ===================== in-memory doubles ===================== */

type memLedger struct {
	mu      sync.Mutex
	balance map[uuid.UUID]int
	history []string
}

func newMemLedger() *memLedger {
	return &memLedger{balance: make(map[uuid.UUID]int)}
}

func (l *memLedger) Debit(_ context.Context, schoolID uuid.UUID, coins int, description string, _ *uuid.UUID) (uuid.UUID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balance[schoolID] < coins {
		return uuid.Nil, ledgersvc.ErrInsufficientFunds
	}
	l.balance[schoolID] -= coins
	l.history = append(l.history, description)
	return uuid.New(), nil
}

func (l *memLedger) Credit(_ context.Context, schoolID uuid.UUID, coins int, _ creditModel.CreditTransactionType, description string, _ *uuid.UUID, _ *string) (uuid.UUID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance[schoolID] += coins
	l.history = append(l.history, description)
	return uuid.New(), nil
}

func (l *memLedger) get(schoolID uuid.UUID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance[schoolID]
}

type memBlogStore struct {
	mu       sync.Mutex
	snap     BlogSnapshot
	postID   *int64
	url      string
	failLoad error
	// conflictOnCommit simulates a concurrent writer stealing the CAS.
	conflictOnCommit bool
}

func (s *memBlogStore) LoadForPublish(_ context.Context, blogID uuid.UUID) (*BlogSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failLoad != nil {
		return nil, s.failLoad
	}
	if blogID != s.snap.BlogID {
		return nil, workflow.ErrNotFound
	}
	cp := s.snap
	return &cp, nil
}

func (s *memBlogStore) CommitPublished(_ context.Context, snap *BlogSnapshot, postID int64, url string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflictOnCommit || s.snap.Status != workflow.StatusApprovedSchool {
		return workflow.ErrConflict
	}
	s.snap.Status = workflow.StatusPublishedWP
	s.postID = &postID
	s.url = url
	return nil
}

type stubCMS struct {
	mu       sync.Mutex
	calls    int
	failures []error // consumed per call before succeeding
	post     WordpressResult
	started  chan struct{}
	proceed  chan struct{}
}

func (c *stubCMS) CreatePost(ctx context.Context, _ WordpressPost) (*WordpressResult, error) {
	c.mu.Lock()
	c.calls++
	var err error
	if len(c.failures) > 0 {
		err = c.failures[0]
		c.failures = c.failures[1:]
	}
	c.mu.Unlock()

	if c.started != nil {
		c.started <- struct{}{}
		<-c.proceed
	}
	if err != nil {
		return nil, err
	}
	cp := c.post
	return &cp, nil
}

func (c *stubCMS) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

/* ===================== fixtures ===================== */

func approvedBlog(schoolID uuid.UUID) BlogSnapshot {
	subID := uuid.New()
	return BlogSnapshot{
		BlogID:       uuid.New(),
		SubmissionID: &subID,
		SchoolID:     &schoolID,
		Status:       workflow.StatusApprovedSchool,
		Title:        "Robotics Team Wins Regionals",
		Content:      "The robotics team took first place this weekend.",
		Slug:         "robotics-team-wins-regionals",
	}
}

func adminActor() blogsvc.Actor {
	return blogsvc.Actor{UserID: uuid.New(), Role: constants.RoleAdmin}
}

func newTestPublisher(store Store, ledger Ledger, cms CMSClient) *Publisher {
	p := NewPublisher(store, ledger, cms, 99, 50)
	p.retryWait = time.Millisecond
	return p
}

/* ===================== tests ===================== */

func TestPublishHappyPath(t *testing.T) {
	schoolID := uuid.New()
	ledger := newMemLedger()
	ledger.balance[schoolID] = 150

	store := &memBlogStore{snap: approvedBlog(schoolID)}
	cms := &stubCMS{post: WordpressResult{PostID: 812, URL: "https://cms.example.com/robotics-team-wins-regionals"}}

	p := newTestPublisher(store, ledger, cms)
	result, err := p.Publish(context.Background(), store.snap.BlogID, adminActor())
	require.NoError(t, err)

	// 150 - 99 + 50
	assert.Equal(t, 101, ledger.get(schoolID))
	assert.Equal(t, int64(812), result.WordpressPostID)
	assert.Equal(t, workflow.StatusPublishedWP, store.snap.Status)
	require.NotNil(t, store.postID)
	assert.Equal(t, int64(812), *store.postID)
	assert.Equal(t, 99, result.CoinsSpent)
	assert.Equal(t, 50, result.CoinsRewarded)
}

func TestPublishInsufficientCredits(t *testing.T) {
	schoolID := uuid.New()
	ledger := newMemLedger()
	ledger.balance[schoolID] = 50

	store := &memBlogStore{snap: approvedBlog(schoolID)}
	cms := &stubCMS{post: WordpressResult{PostID: 1}}

	p := newTestPublisher(store, ledger, cms)
	_, err := p.Publish(context.Background(), store.snap.BlogID, adminActor())
	require.ErrorIs(t, err, ErrInsufficientCredits)

	assert.Equal(t, 50, ledger.get(schoolID), "balance untouched")
	assert.Equal(t, workflow.StatusApprovedSchool, store.snap.Status, "status untouched")
	assert.Equal(t, 0, cms.callCount(), "wordpress never contacted")
}

func TestPublishCMSFailureRefundsDebit(t *testing.T) {
	schoolID := uuid.New()
	ledger := newMemLedger()
	ledger.balance[schoolID] = 150

	store := &memBlogStore{snap: approvedBlog(schoolID)}
	// permanent rejection: no retry, immediate refund
	cms := &stubCMS{failures: []error{
		errors.New("wordpress rejected post (400): bad slug"),
	}}

	p := newTestPublisher(store, ledger, cms)
	_, err := p.Publish(context.Background(), store.snap.BlogID, adminActor())
	require.Error(t, err)

	assert.Equal(t, 150, ledger.get(schoolID), "debit refunded, net zero")
	assert.Equal(t, workflow.StatusApprovedSchool, store.snap.Status)
	assert.Equal(t, 1, cms.callCount(), "permanent errors are not retried")
	assert.Contains(t, ledger.history, fmt.Sprintf("refund:%s", store.snap.BlogID))
}

func TestPublishRetriesTransientCMSFailures(t *testing.T) {
	schoolID := uuid.New()
	ledger := newMemLedger()
	ledger.balance[schoolID] = 150

	store := &memBlogStore{snap: approvedBlog(schoolID)}
	cms := &stubCMS{
		failures: []error{
			&transientError{errors.New("wordpress 503")},
			&transientError{errors.New("wordpress 503")},
		},
		post: WordpressResult{PostID: 77, URL: "https://cms.example.com/p/77"},
	}

	p := newTestPublisher(store, ledger, cms)
	result, err := p.Publish(context.Background(), store.snap.BlogID, adminActor())
	require.NoError(t, err)
	assert.Equal(t, 3, cms.callCount(), "two transient failures then success")
	assert.Equal(t, int64(77), result.WordpressPostID)
	assert.Equal(t, 101, ledger.get(schoolID))
}

func TestPublishCommitConflictIsNotRefunded(t *testing.T) {
	schoolID := uuid.New()
	ledger := newMemLedger()
	ledger.balance[schoolID] = 150

	store := &memBlogStore{snap: approvedBlog(schoolID), conflictOnCommit: true}
	cms := &stubCMS{post: WordpressResult{PostID: 9, URL: "https://cms.example.com/p/9"}}

	p := newTestPublisher(store, ledger, cms)
	_, err := p.Publish(context.Background(), store.snap.BlogID, adminActor())
	require.ErrorIs(t, err, ErrPostPublishedButNotRecorded)

	// the post is live, so the debit stands and no reward is paid
	assert.Equal(t, 150-99, ledger.get(schoolID))
	assert.NotContains(t, ledger.history, fmt.Sprintf("refund:%s", store.snap.BlogID))
}

func TestPublishRejectsWrongStatus(t *testing.T) {
	schoolID := uuid.New()
	ledger := newMemLedger()
	ledger.balance[schoolID] = 150

	snap := approvedBlog(schoolID)
	snap.Status = workflow.StatusReview
	store := &memBlogStore{snap: snap}
	cms := &stubCMS{}

	p := newTestPublisher(store, ledger, cms)
	_, err := p.Publish(context.Background(), snap.BlogID, adminActor())
	require.ErrorIs(t, err, workflow.ErrInvalidTransition)
	assert.Equal(t, 150, ledger.get(schoolID))
}

func TestPublishRejectsForeignSchoolActor(t *testing.T) {
	schoolID := uuid.New()
	ledger := newMemLedger()
	ledger.balance[schoolID] = 150

	store := &memBlogStore{snap: approvedBlog(schoolID)}
	p := newTestPublisher(store, ledger, &stubCMS{})

	outsider := blogsvc.Actor{UserID: uuid.New(), Role: constants.RoleSchool, SchoolID: uuid.New()}
	_, err := p.Publish(context.Background(), store.snap.BlogID, outsider)
	require.ErrorIs(t, err, workflow.ErrForbidden)
	assert.Equal(t, 150, ledger.get(schoolID))
}

func TestPublishNotFound(t *testing.T) {
	ledger := newMemLedger()
	store := &memBlogStore{snap: approvedBlog(uuid.New())}
	p := newTestPublisher(store, ledger, &stubCMS{})

	_, err := p.Publish(context.Background(), uuid.New(), adminActor())
	require.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestConcurrentPublishFailsFast(t *testing.T) {
	schoolID := uuid.New()
	ledger := newMemLedger()
	ledger.balance[schoolID] = 500

	store := &memBlogStore{snap: approvedBlog(schoolID)}
	cms := &stubCMS{
		post:    WordpressResult{PostID: 4, URL: "https://cms.example.com/p/4"},
		started: make(chan struct{}, 1),
		proceed: make(chan struct{}),
	}

	p := newTestPublisher(store, ledger, cms)

	firstDone := make(chan error, 1)
	go func() {
		_, err := p.Publish(context.Background(), store.snap.BlogID, adminActor())
		firstDone <- err
	}()

	// wait until the first publish is inside the CMS call, then race it
	<-cms.started
	_, err := p.Publish(context.Background(), store.snap.BlogID, adminActor())
	require.ErrorIs(t, err, ErrPublishInFlight)

	close(cms.proceed)
	require.NoError(t, <-firstDone)

	assert.Equal(t, 500-99+50, ledger.get(schoolID), "only one publish charged")
	assert.Equal(t, 1, cms.callCount())
}
