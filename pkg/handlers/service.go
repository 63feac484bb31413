// Package handlers implements the package handlers registered with the
// router, wiring storage, cache, and audit publishing together.
package handlers

import (
	"context"
	"time"

	"github.com/morezero/authors-service/pkg/audit"
	"github.com/morezero/authors-service/pkg/auth"
	"github.com/morezero/authors-service/pkg/cache"
	"github.com/morezero/authors-service/pkg/db"
)

// Repository is the data-access surface the handlers need. *db.Repository
// satisfies it; tests substitute a fake.
type Repository interface {
	ListAuthors(ctx context.Context, params db.ListAuthorsParams) ([]db.Author, int, error)
	GetAuthor(ctx context.Context, id string) (*db.Author, error)
	CreateAuthor(ctx context.Context, params db.CreateAuthorParams) (*db.Author, error)
	UpdateAuthor(ctx context.Context, params db.UpdateAuthorParams) (*db.Author, error)
	DeleteAuthor(ctx context.Context, id string) error
	InsertAuditLog(ctx context.Context, params db.InsertAuditLogParams) (*db.AuditLog, error)
	ListAuditLogs(ctx context.Context, params db.ListAuditLogsParams) ([]db.AuditLog, int, error)
}

// Service holds the collaborators shared by all package handlers.
type Service struct {
	repo      Repository
	cache     *cache.Cache
	publisher audit.Publisher
}

// NewServiceParams holds parameters for NewService.
type NewServiceParams struct {
	Repo      Repository
	Cache     *cache.Cache
	Publisher audit.Publisher
}

// NewService creates a Service. A nil publisher is replaced with a no-op and
// a nil cache disables caching.
func NewService(params NewServiceParams) *Service {
	pub := params.Publisher
	if pub == nil {
		pub = &audit.NoOpPublisher{}
	}
	return &Service{
		repo:      params.Repo,
		cache:     params.Cache,
		publisher: pub,
	}
}

// actor returns the username for audit attribution, defaulting to "system"
// when the request carries no user.
func actor(ctx context.Context) string {
	if user := auth.UserFromContext(ctx); user != nil && user.Username != "" {
		return user.Username
	}
	return "system"
}

// recordAudit persists an audit row and publishes the matching event. Audit
// failures are surfaced to the caller's log but never fail the mutation.
func (s *Service) recordAudit(ctx context.Context, action, resource, resourceID string, detail map[string]interface{}) {
	who := actor(ctx)

	var detailJSON []byte
	if detail != nil {
		detailJSON, _ = marshalDetail(detail)
	}
	if _, err := s.repo.InsertAuditLog(ctx, db.InsertAuditLogParams{
		Actor:    who,
		Action:   action,
		Resource: resource + ":" + resourceID,
		Detail:   detailJSON,
	}); err != nil {
		logAuditFailure("persist", action, err)
	}

	if err := s.publisher.Publish(ctx, &audit.Event{
		Actor:      who,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Detail:     detail,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		logAuditFailure("publish", action, err)
	}
}
