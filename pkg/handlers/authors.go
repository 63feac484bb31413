package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/morezero/authors-service/pkg/cache"
	"github.com/morezero/authors-service/pkg/db"
	"github.com/morezero/authors-service/pkg/protocol"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// GetAuthors handles PkgGetAuthors: a paginated author listing.
func (s *Service) GetAuthors(ctx context.Context, req *protocol.Request) *protocol.Response {
	page := intField(req.Data, "page", 1)
	perPage := intField(req.Data, "per_page", defaultPerPage)
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	authors, total, err := s.repo.ListAuthors(ctx, db.ListAuthorsParams{Page: page, PerPage: perPage})
	if err != nil {
		slog.Error(fmt.Sprintf("%s - list authors: %v", logPrefix, err))
		return protocol.NewErrorResponse(req.PkgID, req.ReqID, protocol.CodeError, "Internal server error")
	}
	if authors == nil {
		authors = []db.Author{}
	}

	return protocol.NewListResponse(req.PkgID, req.ReqID,
		map[string]interface{}{"authors": authors},
		paginationMeta(page, perPage, total))
}

// GetAuthor handles PkgGetAuthor: a single author by ID, read through the cache.
func (s *Service) GetAuthor(ctx context.Context, req *protocol.Request) *protocol.Response {
	id := stringField(req.Data, "id")

	var cached db.Author
	if s.cache.GetJSON(ctx, cache.AuthorKey(id), &cached) {
		return protocol.NewResponse(req.PkgID, req.ReqID, map[string]interface{}{"author": cached})
	}

	author, err := s.repo.GetAuthor(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return protocol.NewErrorResponse(req.PkgID, req.ReqID, protocol.CodeNotFound, "Author not found")
		}
		slog.Error(fmt.Sprintf("%s - get author %s: %v", logPrefix, id, err))
		return protocol.NewErrorResponse(req.PkgID, req.ReqID, protocol.CodeError, "Internal server error")
	}

	s.cache.SetJSON(ctx, cache.AuthorKey(id), author)
	return protocol.NewResponse(req.PkgID, req.ReqID, map[string]interface{}{"author": author})
}

// CreateAuthor handles PkgCreateAuthor and records the mutation in the audit trail.
func (s *Service) CreateAuthor(ctx context.Context, req *protocol.Request) *protocol.Response {
	author, err := s.repo.CreateAuthor(ctx, db.CreateAuthorParams{
		FirstName: stringField(req.Data, "first_name"),
		LastName:  stringField(req.Data, "last_name"),
		UserID:    actor(ctx),
	})
	if err != nil {
		slog.Error(fmt.Sprintf("%s - create author: %v", logPrefix, err))
		return protocol.NewErrorResponse(req.PkgID, req.ReqID, protocol.CodeError, "Internal server error")
	}

	s.recordAudit(ctx, "create", "author", author.ID, map[string]interface{}{
		"first_name": author.FirstName,
		"last_name":  author.LastName,
	})
	return protocol.NewResponse(req.PkgID, req.ReqID, map[string]interface{}{"author": author})
}

// UpdateAuthor handles PkgUpdateAuthor: a partial update invalidating the cache.
func (s *Service) UpdateAuthor(ctx context.Context, req *protocol.Request) *protocol.Response {
	id := stringField(req.Data, "id")

	author, err := s.repo.UpdateAuthor(ctx, db.UpdateAuthorParams{
		ID:        id,
		FirstName: optionalStringField(req.Data, "first_name"),
		LastName:  optionalStringField(req.Data, "last_name"),
		UserID:    actor(ctx),
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return protocol.NewErrorResponse(req.PkgID, req.ReqID, protocol.CodeNotFound, "Author not found")
		}
		slog.Error(fmt.Sprintf("%s - update author %s: %v", logPrefix, id, err))
		return protocol.NewErrorResponse(req.PkgID, req.ReqID, protocol.CodeError, "Internal server error")
	}

	s.cache.Delete(ctx, cache.AuthorKey(id))
	s.recordAudit(ctx, "update", "author", id, map[string]interface{}{
		"first_name": author.FirstName,
		"last_name":  author.LastName,
	})
	return protocol.NewResponse(req.PkgID, req.ReqID, map[string]interface{}{"author": author})
}

// DeleteAuthor handles PkgDeleteAuthor.
func (s *Service) DeleteAuthor(ctx context.Context, req *protocol.Request) *protocol.Response {
	id := stringField(req.Data, "id")

	if err := s.repo.DeleteAuthor(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return protocol.NewErrorResponse(req.PkgID, req.ReqID, protocol.CodeNotFound, "Author not found")
		}
		slog.Error(fmt.Sprintf("%s - delete author %s: %v", logPrefix, id, err))
		return protocol.NewErrorResponse(req.PkgID, req.ReqID, protocol.CodeError, "Internal server error")
	}

	s.cache.Delete(ctx, cache.AuthorKey(id))
	s.recordAudit(ctx, "delete", "author", id, nil)
	return protocol.NewResponse(req.PkgID, req.ReqID, map[string]interface{}{"deleted": id})
}
