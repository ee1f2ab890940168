package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"expirytracker/internal/expiry"
	"expirytracker/internal/model"
	"expirytracker/internal/repository"
)

// MaxAlerts is the number of alerts shown on the dashboard.
const MaxAlerts = 5

// DashboardStats counts a user's documents by status.
type DashboardStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Expiring int `json:"expiring"`
	Expired  int `json:"expired"`
	Unknown  int `json:"unknown"`
}

// Alert is a dashboard entry for an expiring or expired document.
type Alert struct {
	Type       expiry.Status `json:"type"`
	Title      string        `json:"title"`
	Date       string        `json:"date"`
	DocumentID string        `json:"document_id"`
}

type Dashboard struct {
	Stats  DashboardStats `json:"stats"`
	Alerts []Alert        `json:"alerts"`
}

type DashboardService interface {
	Get(ctx context.Context, userID string) (*Dashboard, error)
}

type dashboardService struct {
	repo repository.DocumentRepository
	loc  *time.Location
	now  func() time.Time
}

func NewDashboardService(repo repository.DocumentRepository, loc *time.Location) DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{repo: repo, loc: loc, now: time.Now}
}

type classified struct {
	doc    model.Document
	result expiry.Result
}

// Get counts documents by status and lists alerts for the soonest-expiring documents first.
func (s *dashboardService) Get(ctx context.Context, userID string) (*Dashboard, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	docs, err := s.repo.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	items := make([]classified, 0, len(docs))
	out := &Dashboard{Alerts: []Alert{}}
	for _, d := range docs {
		r := expiry.Evaluate(d.ExpiryDate, today, s.loc)
		items = append(items, classified{doc: d, result: r})

		out.Stats.Total++
		switch r.Status {
		case expiry.StatusActive:
			out.Stats.Active++
		case expiry.StatusExpiring:
			out.Stats.Expiring++
		case expiry.StatusExpired:
			out.Stats.Expired++
		default:
			out.Stats.Unknown++
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].result, items[j].result
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.DaysRemaining < b.DaysRemaining
	})

	for _, it := range items {
		if len(out.Alerts) == MaxAlerts {
			break
		}
		if a, ok := alertFor(it); ok {
			out.Alerts = append(out.Alerts, a)
		}
	}
	return out, nil
}

func alertFor(it classified) (Alert, bool) {
	days := it.result.DaysRemaining
	switch it.result.Status {
	case expiry.StatusExpiring:
		return Alert{
			Type:       expiry.StatusExpiring,
			Title:      fmt.Sprintf("%s is expiring soon", it.doc.Name),
			Date:       fmt.Sprintf("Expires in %d days", days),
			DocumentID: it.doc.ID,
		}, true
	case expiry.StatusExpired:
		return Alert{
			Type:       expiry.StatusExpired,
			Title:      fmt.Sprintf("%s has expired", it.doc.Name),
			Date:       fmt.Sprintf("Expired %d days ago", -days),
			DocumentID: it.doc.ID,
		}, true
	}
	return Alert{}, false
}
