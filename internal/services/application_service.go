// internal/services/application_service.go
package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/internhub/gateway/internal/config"
	"github.com/internhub/gateway/internal/models"
	"github.com/internhub/gateway/internal/sync"
	"github.com/internhub/gateway/internal/upstream"
)

// ApplicationService maintains one polled applications view per intern
// and serves the classified, sorted, match-enriched slice the dashboard
// renders. The marketplace stays the source of truth: every mutation is
// followed by a re-fetch, never a local merge.
type ApplicationService struct {
	api    *upstream.Client
	views  *sync.Registry[models.ApplicationRecord]
	logger *logrus.Logger
}

func NewApplicationService(api *upstream.Client, cfg config.SyncConfig, logger *logrus.Logger) *ApplicationService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ApplicationService{
		api:    api,
		views:  sync.NewRegistry[models.ApplicationRecord](cfg.PollInterval, cfg.ViewIdleTTL, logger),
		logger: logger,
	}
}

// ApplicationList is a view snapshot prepared for display.
type ApplicationList struct {
	Items        []models.ApplicationRecord `json:"items"`
	StatusCounts map[string]int             `json:"status_counts"`
	LastSynced   *models.Timestamp          `json:"last_synced"`
	IsRefreshing bool                       `json:"is_refreshing"`
}

// Applications returns the intern's applications, fetching synchronously
// only when the view has never synced. Fetch results are enriched with
// match percentages best-effort: a failed match fetch never blocks the
// primary list.
func (s *ApplicationService) Applications(ctx context.Context, userID, token string, query ApplicationQuery) (*ApplicationList, error) {
	view := s.view(userID, token)

	snapshot := view.Snapshot()
	if snapshot.LastSynced.IsZero() {
		if err := view.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("initial sync: %w", err)
		}
		snapshot = view.Snapshot()
	}

	items := SortByPriority(FilterApplications(snapshot.Items, query))

	list := &ApplicationList{
		Items:        items,
		StatusCounts: StatusCounts(snapshot.Items),
		IsRefreshing: snapshot.IsRefreshing,
	}
	if !snapshot.LastSynced.IsZero() {
		list.LastSynced = &models.Timestamp{Time: snapshot.LastSynced}
	}
	return list, nil
}

// Refresh forces an immediate re-sync of the intern's applications view.
// Concurrent calls coalesce onto a single upstream fetch.
func (s *ApplicationService) Refresh(ctx context.Context, userID, token string) error {
	return s.view(userID, token).Refresh(ctx)
}

// Apply submits an application and re-syncs the view so the new record
// shows up immediately with its server-assigned id and status.
func (s *ApplicationService) Apply(ctx context.Context, userID, token, internshipID string) (*models.ApplicationRecord, error) {
	record, err := s.api.Apply(ctx, token, internshipID)
	if err != nil {
		return nil, err
	}

	if err := s.view(userID, token).Refresh(ctx); err != nil {
		// The application went through; a refresh failure only delays
		// the list update until the next tick.
		s.logger.WithError(err).Warn("post-apply refresh failed")
	}
	return record, nil
}

// Close releases every view and its poll ticker.
func (s *ApplicationService) Close() {
	s.views.Close()
}

func (s *ApplicationService) view(userID, token string) *sync.View[models.ApplicationRecord] {
	return s.views.Get(userID, func(ctx context.Context) ([]models.ApplicationRecord, error) {
		records, err := s.api.MyApplications(ctx, token)
		if err != nil {
			return nil, err
		}

		internships, err := s.api.InternshipsWithMatch(ctx, token)
		if err != nil {
			s.logger.WithError(err).Warn("match fetch failed, serving applications without scores")
			return records, nil
		}
		return JoinApplicationMatches(records, BuildMatchTable(internships)), nil
	})
}
