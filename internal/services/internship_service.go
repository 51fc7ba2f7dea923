// internal/services/internship_service.go
package services

import (
	"context"
	"sort"
	"strings"

	"github.com/internhub/gateway/internal/models"
	"github.com/internhub/gateway/internal/upstream"
)

// InternshipService serves the browse listings. These are pass-through
// reads: postings change rarely and the pages re-fetch on navigation, so
// no polled view is kept for them.
type InternshipService struct {
	api *upstream.Client
}

func NewInternshipService(api *upstream.Client) *InternshipService {
	return &InternshipService{api: api}
}

// InternshipQuery narrows the browse listing.
type InternshipQuery struct {
	Search   string
	Category string
}

// WithMatch returns active internships annotated with the calling
// intern's match percentages, best matches first.
func (s *InternshipService) WithMatch(ctx context.Context, token string, query InternshipQuery) ([]models.Internship, error) {
	internships, err := s.api.InternshipsWithMatch(ctx, token)
	if err != nil {
		return nil, err
	}

	filtered := filterInternships(internships, query)
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].MatchPercentage > filtered[j].MatchPercentage
	})
	return filtered, nil
}

// Browse returns the public listing without match annotations.
func (s *InternshipService) Browse(ctx context.Context, token string, query InternshipQuery) ([]models.Internship, error) {
	internships, err := s.api.Internships(ctx, token)
	if err != nil {
		return nil, err
	}
	return filterInternships(internships, query), nil
}

func filterInternships(items []models.Internship, query InternshipQuery) []models.Internship {
	search := strings.ToLower(strings.TrimSpace(query.Search))
	category := strings.TrimSpace(query.Category)

	filtered := make([]models.Internship, 0, len(items))
	for _, item := range items {
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Title), search) &&
			!strings.Contains(strings.ToLower(item.CompanyName), search) &&
			!strings.Contains(strings.ToLower(item.Location), search) {
			continue
		}
		if category != "" && category != "all" && !strings.EqualFold(item.Category, category) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}
