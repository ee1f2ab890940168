package repository

import (
	"context"

	"expirytracker/internal/model"
)

// DocumentRepository defines data access for tracked documents using SQL queries only.
// Every read and write except ListUserIDs is scoped to the owning user.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns one of the user's documents.
	FindByID(ctx context.Context, userID, id string) (*model.Document, error)

	// ListByUser returns a page of the user's documents, newest first, and the total count.
	ListByUser(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.Document], error)

	// ListAllByUser returns every document of the user, newest first.
	ListAllByUser(ctx context.Context, userID string) ([]model.Document, error)

	// ListUserIDs returns the distinct owners of at least one document.
	ListUserIDs(ctx context.Context) ([]string, error)

	// Update overwrites the editable fields and returns the stored row.
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Delete removes one of the user's documents.
	Delete(ctx context.Context, userID, id string) error
}
