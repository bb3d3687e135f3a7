// file: internals/features/publish/service/publisher_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	blogsvc "schoolchamps_backend/internals/features/blogs/service"
	creditModel "schoolchamps_backend/internals/features/credits/model"
	ledgersvc "schoolchamps_backend/internals/features/credits/service"
	"schoolchamps_backend/internals/features/workflow"
)

/* =========================================================
   PUBLISH ORCHESTRATOR

   Saga: debit → WordPress post → commit status. A CMS
   failure refunds the debit; a commit failure after the
   post exists refunds nothing and flags reconciliation.
   ========================================================= */

var (
	ErrInsufficientCredits         = errors.New("insufficient credits to publish")
	ErrPublishInFlight             = errors.New("a publish for this blog is already in progress")
	ErrPostPublishedButNotRecorded = errors.New("wordpress post created but status update lost; manual reconciliation required")
)

// BlogSnapshot is the slice of a blog the publisher needs.
type BlogSnapshot struct {
	BlogID       uuid.UUID
	SubmissionID *uuid.UUID
	SchoolID     *uuid.UUID
	Status       workflow.Status
	Title        string
	Content      string
	Slug         string
	Excerpt      string
}

type Store interface {
	// LoadForPublish returns workflow.ErrNotFound when the blog is missing.
	LoadForPublish(ctx context.Context, blogID uuid.UUID) (*BlogSnapshot, error)
	// CommitPublished flips approved_school → published_wp and records the
	// WordPress identifiers. Returns workflow.ErrConflict when the status
	// moved underneath us.
	CommitPublished(ctx context.Context, snap *BlogSnapshot, postID int64, url string, publishedAt time.Time) error
}

type Ledger interface {
	Debit(ctx context.Context, schoolID uuid.UUID, coins int, description string, blogID *uuid.UUID) (uuid.UUID, error)
	Credit(ctx context.Context, schoolID uuid.UUID, coins int, txType creditModel.CreditTransactionType, description string, blogID *uuid.UUID, orderID *string) (uuid.UUID, error)
}

type PublishResult struct {
	BlogID          uuid.UUID `json:"blog_id"`
	WordpressPostID int64     `json:"wordpress_post_id"`
	WordpressURL    string    `json:"wordpress_url"`
	CoinsSpent      int       `json:"coins_spent"`
	CoinsRewarded   int       `json:"coins_rewarded"`
}

type Publisher struct {
	store  Store
	ledger Ledger
	cms    CMSClient

	publishCost   int
	publishReward int

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}

	// retryWait is shortened in tests.
	retryWait time.Duration
}

func NewPublisher(store Store, ledger Ledger, cms CMSClient, cost, reward int) *Publisher {
	return &Publisher{
		store:         store,
		ledger:        ledger,
		cms:           cms,
		publishCost:   cost,
		publishReward: reward,
		inFlight:      make(map[uuid.UUID]struct{}),
		retryWait:     500 * time.Millisecond,
	}
}

// Publish runs the whole saga for one blog. Only one publish per blog may
// be in flight in this process; a second concurrent call fails fast.
func (p *Publisher) Publish(ctx context.Context, blogID uuid.UUID, actor blogsvc.Actor) (*PublishResult, error) {
	if !p.acquire(blogID) {
		return nil, ErrPublishInFlight
	}
	defer p.release(blogID)

	snap, err := p.store.LoadForPublish(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if snap.Status != workflow.StatusApprovedSchool {
		return nil, fmt.Errorf("%w: blog is %s", workflow.ErrInvalidTransition, snap.Status)
	}
	if !workflow.CanTransition(actor.Role, workflow.EntityBlog, snap.Status, workflow.StatusPublishedWP) {
		return nil, workflow.ErrForbidden
	}
	if snap.SchoolID == nil {
		return nil, fmt.Errorf("%w: blog has no school assigned", workflow.ErrInvalidTransition)
	}
	if err := blogsvc.CheckSchoolScope(actor, snap.SchoolID); err != nil {
		return nil, err
	}
	schoolID := *snap.SchoolID

	// Step 1: take the coins first. Nothing external has happened yet, so
	// a failure here leaves no trace.
	if _, err := p.ledger.Debit(ctx, schoolID, p.publishCost,
		fmt.Sprintf("publish:%s", blogID), &snap.BlogID); err != nil {
		if errors.Is(err, ledgersvc.ErrInsufficientFunds) {
			return nil, ErrInsufficientCredits
		}
		return nil, err
	}

	// Step 2: create the post, retrying only transient failures.
	post, err := p.createPostWithRetry(ctx, snap)
	if err != nil {
		p.refund(ctx, schoolID, snap.BlogID, err)
		return nil, fmt.Errorf("wordpress publish failed: %w", err)
	}

	// Step 3: commit. If another actor moved the blog meanwhile the post
	// stays up on WordPress; refunding here would hide a live post.
	now := time.Now()
	if err := p.store.CommitPublished(ctx, snap, post.PostID, post.URL, now); err != nil {
		log.Printf("[PUBLISH][RECONCILE] blog=%s wp_post=%d commit failed: %v", blogID, post.PostID, err)
		return nil, ErrPostPublishedButNotRecorded
	}

	// Step 4: reward the school. A failure here never rolls back the
	// publish; it just gets logged for a manual adjustment.
	rewarded := p.publishReward
	if _, err := p.ledger.Credit(ctx, schoolID, p.publishReward, creditModel.CreditTransactionReward,
		fmt.Sprintf("reward:%s", blogID), &snap.BlogID, nil); err != nil {
		log.Printf("[PUBLISH] reward credit failed for blog=%s school=%s: %v", blogID, schoolID, err)
		rewarded = 0
	}

	log.Printf("[PUBLISH] blog=%s → wp_post=%d url=%s", blogID, post.PostID, post.URL)
	return &PublishResult{
		BlogID:          snap.BlogID,
		WordpressPostID: post.PostID,
		WordpressURL:    post.URL,
		CoinsSpent:      p.publishCost,
		CoinsRewarded:   rewarded,
	}, nil
}

const maxCMSAttempts = 3

func (p *Publisher) createPostWithRetry(ctx context.Context, snap *BlogSnapshot) (*WordpressResult, error) {
	var lastErr error
	for attempt := 1; attempt <= maxCMSAttempts; attempt++ {
		post, err := p.cms.CreatePost(ctx, WordpressPost{
			Title:   snap.Title,
			Content: snap.Content,
			Slug:    snap.Slug,
			Excerpt: snap.Excerpt,
		})
		if err == nil {
			return post, nil
		}
		lastErr = err
		if !IsTransient(err) || attempt == maxCMSAttempts {
			break
		}
		wait := p.retryWait * time.Duration(1<<(attempt-1))
		log.Printf("[PUBLISH] wordpress attempt %d/%d failed (%v), retrying in %s", attempt, maxCMSAttempts, err, wait)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (p *Publisher) refund(ctx context.Context, schoolID, blogID uuid.UUID, cause error) {
	if _, err := p.ledger.Credit(ctx, schoolID, p.publishCost, creditModel.CreditTransactionAdjustment,
		fmt.Sprintf("refund:%s", blogID), &blogID, nil); err != nil {
		log.Printf("[PUBLISH][FATAL] refund of %d coins failed for school=%s blog=%s (cause: %v): %v",
			p.publishCost, schoolID, blogID, cause, err)
		return
	}
	log.Printf("[PUBLISH] refunded %d coins to school=%s after failed publish of blog=%s", p.publishCost, schoolID, blogID)
}

func (p *Publisher) acquire(blogID uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inFlight[blogID]; busy {
		return false
	}
	p.inFlight[blogID] = struct{}{}
	return true
}

func (p *Publisher) release(blogID uuid.UUID) {
	p.mu.Lock()
	delete(p.inFlight, blogID)
	p.mu.Unlock()
}
