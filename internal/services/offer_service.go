// internal/services/offer_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"

	"github.com/sirupsen/logrus"

	"github.com/internhub/gateway/internal/config"
	"github.com/internhub/gateway/internal/models"
	"github.com/internhub/gateway/internal/sync"
	"github.com/internhub/gateway/internal/upstream"
)

var (
	// ErrOfferNotFound means the application id is not in the intern's
	// synced offer collection.
	ErrOfferNotFound = errors.New("offer not found")
	// ErrNotRespondable means the offer is not awaiting a response: it
	// was already accepted or declined, or never reached offered state.
	ErrNotRespondable = errors.New("offer is not awaiting a response")
	// ErrResponseInFlight means a response for this application is
	// already being submitted.
	ErrResponseInFlight = errors.New("a response for this offer is already in flight")
)

// OfferService maintains the per-intern offers view and performs the
// one-shot offered -> accepted/declined transition. The transition is
// never committed optimistically: local state changes only after the
// server confirms, via a full re-sync.
type OfferService struct {
	api    *upstream.Client
	views  *sync.Registry[models.Offer]
	logger *logrus.Logger

	mu       stdsync.Mutex
	inFlight map[string]struct{} // application ids with a pending response
}

func NewOfferService(api *upstream.Client, cfg config.SyncConfig, logger *logrus.Logger) *OfferService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &OfferService{
		api:      api,
		views:    sync.NewRegistry[models.Offer](cfg.PollInterval, cfg.ViewIdleTTL, logger),
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

// OfferList is an offers view snapshot prepared for display.
type OfferList struct {
	Items        []models.Offer    `json:"items"`
	LastSynced   *models.Timestamp `json:"last_synced"`
	IsRefreshing bool              `json:"is_refreshing"`
}

// Offers returns the intern's offers, syncing on first access and
// enriching with match percentages best-effort.
func (s *OfferService) Offers(ctx context.Context, userID, token string) (*OfferList, error) {
	view := s.view(userID, token)

	snapshot := view.Snapshot()
	if snapshot.LastSynced.IsZero() {
		if err := view.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("initial sync: %w", err)
		}
		snapshot = view.Snapshot()
	}

	list := &OfferList{
		Items:        SortByPriority(snapshot.Items),
		IsRefreshing: snapshot.IsRefreshing,
	}
	if !snapshot.LastSynced.IsZero() {
		list.LastSynced = &models.Timestamp{Time: snapshot.LastSynced}
	}
	return list, nil
}

// Refresh forces an immediate re-sync of the intern's offers view.
func (s *OfferService) Refresh(ctx context.Context, userID, token string) error {
	return s.view(userID, token).Refresh(ctx)
}

// Respond accepts or declines a pending offer.
//
// Preconditions enforced locally before any network call: the record
// must be present in the synced collection, must classify as offered,
// and must not already have a response in flight. Once the server
// confirms a terminal state the precondition fails permanently; the
// transition is irreversible from the client's side.
func (s *OfferService) Respond(ctx context.Context, userID, token, applicationID string, choice models.OfferResponseChoice) (*models.Offer, error) {
	view := s.view(userID, token)

	snapshot := view.Snapshot()
	if snapshot.LastSynced.IsZero() {
		if err := view.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("initial sync: %w", err)
		}
		snapshot = view.Snapshot()
	}

	var current *models.Offer
	for i := range snapshot.Items {
		if snapshot.Items[i].ApplicationID == applicationID {
			current = &snapshot.Items[i]
			break
		}
	}
	if current == nil {
		return nil, ErrOfferNotFound
	}
	if current.StatusTag() != models.StatusOffered {
		return nil, ErrNotRespondable
	}

	if !s.begin(applicationID) {
		return nil, ErrResponseInFlight
	}
	defer s.finish(applicationID)

	updated, err := s.api.RespondToOffer(ctx, token, applicationID, choice)
	if err != nil {
		// Nothing was committed locally; the displayed status is
		// unchanged and the caller surfaces the error.
		return nil, err
	}

	// Pull the authoritative post-transition state rather than trusting
	// the response body as final view state.
	if err := view.Refresh(ctx); err != nil {
		s.logger.WithError(err).Warn("post-response refresh failed")
	}
	return updated, nil
}

// Close releases every view and its poll ticker.
func (s *OfferService) Close() {
	s.views.Close()
}

func (s *OfferService) begin(applicationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, pending := s.inFlight[applicationID]; pending {
		return false
	}
	s.inFlight[applicationID] = struct{}{}
	return true
}

func (s *OfferService) finish(applicationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, applicationID)
}

func (s *OfferService) view(userID, token string) *sync.View[models.Offer] {
	return s.views.Get(userID, func(ctx context.Context) ([]models.Offer, error) {
		offers, err := s.api.MyOffers(ctx, token)
		if err != nil {
			return nil, err
		}

		internships, err := s.api.InternshipsWithMatch(ctx, token)
		if err != nil {
			s.logger.WithError(err).Warn("match fetch failed, serving offers without scores")
			return offers, nil
		}
		return JoinOfferMatches(offers, BuildMatchTable(internships)), nil
	})
}
