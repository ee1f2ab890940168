// Package search keeps a full-text index of tracked documents.
package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"expirytracker/internal/model"
)

// Index wraps a Bleve index of documents, partitioned by owner.
type Index struct {
	index bleve.Index
}

// indexedDocument is the searchable projection of a model.Document.
type indexedDocument struct {
	UserID string
	Type   string
	Name   string
	Number string
	Notes  string
}

// Hit is a search result.
type Hit struct {
	ID        string
	Score     float64
	Fragments map[string][]string
}

// Open opens the index at path, creating it if needed. An empty path keeps the index in memory.
func Open(path string) (*Index, error) {
	if path == "" {
		return NewMemOnly()
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	return &Index{index: idx}, nil
}

// NewMemOnly creates a volatile index.
func NewMemOnly() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	owner := bleve.NewKeywordFieldMapping()
	owner.IncludeInAll = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("UserID", owner)
	docMapping.AddFieldMappingsAt("Name", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Type", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Number", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Notes", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

// Close closes the index.
func (i *Index) Close() error {
	return i.index.Close()
}

// IndexDocument adds or replaces a document.
func (i *Index) IndexDocument(doc model.Document) error {
	return i.index.Index(doc.ID, project(doc))
}

// Delete removes a document from the index.
func (i *Index) Delete(id string) error {
	return i.index.Delete(id)
}

// Reindex makes docs the full content of the index in one batch. Entries whose
// document is not in docs are removed.
func (i *Index) Reindex(docs []model.Document) error {
	existing, err := i.indexedIDs()
	if err != nil {
		return err
	}

	keep := make(map[string]struct{}, len(docs))
	batch := i.index.NewBatch()
	for _, d := range docs {
		keep[d.ID] = struct{}{}
		if err := batch.Index(d.ID, project(d)); err != nil {
			return fmt.Errorf("batch index %s: %w", d.ID, err)
		}
	}
	for _, id := range existing {
		if _, ok := keep[id]; !ok {
			batch.Delete(id)
		}
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Search returns the user's documents matching q, best first. Terms match
// fuzzily, and the last term also matches as a prefix of the name.
func (i *Index) Search(userID, q string, limit int) ([]Hit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Hit{}, nil
	}

	owner := bleve.NewTermQuery(userID)
	owner.SetField("UserID")

	match := bleve.NewMatchQuery(q)
	match.SetFuzziness(1)

	terms := strings.Fields(strings.ToLower(q))
	prefix := bleve.NewPrefixQuery(terms[len(terms)-1])
	prefix.SetField("Name")

	text := bleve.NewDisjunctionQuery(match, prefix)
	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery([]query.Query{owner, text}...), limit, 0, false)
	req.Highlight = bleve.NewHighlight()

	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score, Fragments: h.Fragments})
	}
	return hits, nil
}

// Count returns the number of indexed documents.
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

func (i *Index) indexedIDs() ([]string, error) {
	n, err := i.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	res, err := i.index.Search(bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(n), 0, false))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	ids := make([]string, 0, len(res.Hits))
	for _, h := range res.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

func project(d model.Document) indexedDocument {
	return indexedDocument{
		UserID: d.UserID,
		Type:   d.Type,
		Name:   d.Name,
		Number: d.Number,
		Notes:  d.Notes,
	}
}
