package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"expirytracker/internal/expiry"
	"expirytracker/internal/model"
	"expirytracker/internal/repository"
	"expirytracker/internal/search"
)

// DocumentInput carries the client-editable fields of a document.
type DocumentInput struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Number     string `json:"number"`
	IssueDate  string `json:"issue_date"`
	ExpiryDate string `json:"expiry_date"`
	Notes      string `json:"notes"`
}

// DocumentView is a document annotated with its status for today.
// DaysRemaining is nil when the stored expiry date cannot be parsed.
type DocumentView struct {
	model.Document
	Status        expiry.Status `json:"status"`
	DaysRemaining *int          `json:"days_remaining"`
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []DocumentView `json:"data"`
	Total int            `json:"total"`
}

// DocumentIndex is the full-text index kept in step with the documents table.
type DocumentIndex interface {
	IndexDocument(doc model.Document) error
	Delete(id string) error
	Search(userID, q string, limit int) ([]search.Hit, error)
}

// DocumentService defines the use cases for tracked documents. Every change
// triggers a reminder evaluation for the owner.
type DocumentService interface {
	Create(ctx context.Context, userID string, in DocumentInput) (*DocumentView, error)

	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, userID string, limit, offset int) (*DocumentListResult, error)

	Get(ctx context.Context, userID, id string) (*DocumentView, error)

	Update(ctx context.Context, userID, id string, in DocumentInput) (*DocumentView, error)

	Delete(ctx context.Context, userID, id string) error

	// Search returns the user's documents matching q, best match first.
	Search(ctx context.Context, userID, q string, limit int) ([]DocumentView, error)
}

type documentService struct {
	repo      repository.DocumentRepository
	index     DocumentIndex
	reminders ReminderService
	loc       *time.Location
	log       zerolog.Logger
	now       func() time.Time
}

// NewDocumentService constructs a DocumentService. index and reminders may be nil.
func NewDocumentService(repo repository.DocumentRepository, index DocumentIndex, reminders ReminderService, loc *time.Location, log zerolog.Logger) DocumentService {
	if loc == nil {
		loc = time.UTC
	}
	return &documentService{
		repo:      repo,
		index:     index,
		reminders: reminders,
		loc:       loc,
		log:       log.With().Str("component", "document_service").Logger(),
		now:       time.Now,
	}
}

func (s *documentService) Create(ctx context.Context, userID string, in DocumentInput) (*DocumentView, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if err := s.normalize(&in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	doc := &model.Document{
		ID:         uuid.New().String(),
		UserID:     userID,
		Type:       in.Type,
		Name:       in.Name,
		Number:     in.Number,
		IssueDate:  in.IssueDate,
		ExpiryDate: in.ExpiryDate,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.indexDocument(*stored)
	s.refresh(ctx, userID)
	v := s.view(*stored)
	return &v, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, userID string, limit, offset int) (*DocumentListResult, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.ListByUser(ctx, userID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: s.views(res.Items), Total: res.Total}, nil
}

func (s *documentService) Get(ctx context.Context, userID, id string) (*DocumentView, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	v := s.view(*doc)
	return &v, nil
}

func (s *documentService) Update(ctx context.Context, userID, id string, in DocumentInput) (*DocumentView, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	if err := s.normalize(&in); err != nil {
		return nil, err
	}

	stored, err := s.repo.Update(ctx, &model.Document{
		ID:         id,
		UserID:     userID,
		Type:       in.Type,
		Name:       in.Name,
		Number:     in.Number,
		IssueDate:  in.IssueDate,
		ExpiryDate: in.ExpiryDate,
		Notes:      in.Notes,
		UpdatedAt:  s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.indexDocument(*stored)
	s.refresh(ctx, userID)
	v := s.view(*stored)
	return &v, nil
}

func (s *documentService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrUserRequired
	}
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if s.index != nil {
		if err := s.index.Delete(id); err != nil {
			s.log.Warn().Err(err).Str("event", "search_index_delete_failed").Str("document_id", id).Send()
		}
	}
	s.refresh(ctx, userID)
	return nil
}

func (s *documentService) Search(ctx context.Context, userID, q string, limit int) ([]DocumentView, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if s.index == nil {
		return nil, ErrSearchDisabled
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	hits, err := s.index.Search(userID, q, limit)
	if err != nil {
		return nil, err
	}

	out := make([]DocumentView, 0, len(hits))
	for _, h := range hits {
		doc, err := s.repo.FindByID(ctx, userID, h.ID)
		if err != nil {
			// The index may briefly lag behind a delete.
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}
		out = append(out, s.view(*doc))
	}
	return out, nil
}

// normalize trims the input and rewrites dates as YYYY-MM-DD calendar days.
func (s *documentService) normalize(in *DocumentInput) error {
	in.Type = strings.TrimSpace(in.Type)
	in.Name = strings.TrimSpace(in.Name)
	in.Number = strings.TrimSpace(in.Number)
	in.Notes = strings.TrimSpace(in.Notes)

	if in.Name == "" {
		return ErrNameRequired
	}
	if in.Type == "" {
		return ErrTypeRequired
	}

	exp, err := expiry.ParseDate(in.ExpiryDate, s.loc)
	if err != nil {
		return ErrInvalidExpiry
	}
	in.ExpiryDate = exp.Format(time.DateOnly)

	if strings.TrimSpace(in.IssueDate) != "" {
		issued, err := expiry.ParseDate(in.IssueDate, s.loc)
		if err != nil {
			return ErrInvalidIssue
		}
		in.IssueDate = issued.Format(time.DateOnly)
	} else {
		in.IssueDate = ""
	}
	return nil
}

func (s *documentService) indexDocument(doc model.Document) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexDocument(doc); err != nil {
		s.log.Warn().Err(err).Str("event", "search_index_failed").Str("document_id", doc.ID).Send()
	}
}

// refresh re-evaluates reminders after a change. Its failure never fails the write.
func (s *documentService) refresh(ctx context.Context, userID string) {
	if s.reminders == nil {
		return
	}
	if _, err := s.reminders.EvaluateUser(ctx, userID); err != nil {
		s.log.Error().Err(err).Str("event", "reminder_refresh_failed").Str("user_id", userID).Send()
	}
}

func (s *documentService) view(doc model.Document) DocumentView {
	r := expiry.Evaluate(doc.ExpiryDate, s.now(), s.loc)
	v := DocumentView{Document: doc, Status: r.Status}
	if r.Valid {
		days := r.DaysRemaining
		v.DaysRemaining = &days
	}
	return v
}

func (s *documentService) views(docs []model.Document) []DocumentView {
	out := make([]DocumentView, 0, len(docs))
	for _, d := range docs {
		out = append(out, s.view(d))
	}
	return out
}
