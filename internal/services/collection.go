// internal/services/collection.go
package services

import (
	"sort"
	"strings"
	"time"

	"github.com/internhub/gateway/internal/models"
)

// Record is the slice of an application the ordering logic cares about.
// Both ApplicationRecord and Offer satisfy it.
type Record interface {
	StatusTag() models.ApplicationStatus
	AppliedAt() time.Time
}

// SortByPriority returns a new slice ordered by ascending status
// priority (offers first), ties broken by most recent application date.
// Pure: the input is never mutated, and re-sorting sorted output is a
// no-op.
func SortByPriority[T Record](items []T) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := sorted[i].StatusTag().Priority(), sorted[j].StatusTag().Priority()
		if pi != pj {
			return pi < pj
		}
		return sorted[i].AppliedAt().After(sorted[j].AppliedAt())
	})
	return sorted
}

// MatchTable is the match side table indexed by internship id.
type MatchTable map[string]models.MatchEntry

// BuildMatchTable indexes the with-match listing by internship id for
// O(1) joins.
func BuildMatchTable(internships []models.Internship) MatchTable {
	table := make(MatchTable, len(internships))
	for _, in := range internships {
		table[in.ID] = models.MatchEntry{
			Percentage:     in.MatchPercentage,
			MatchingSkills: in.MatchingSkills,
			MissingSkills:  in.MissingSkills,
		}
	}
	return table
}

// JoinApplicationMatches copies the items with each one's match
// percentage filled from the table, 0 when the internship has no
// computed match.
func JoinApplicationMatches(items []models.ApplicationRecord, table MatchTable) []models.ApplicationRecord {
	joined := make([]models.ApplicationRecord, len(items))
	for i, item := range items {
		item.MatchPercentage = table[item.InternshipID].Percentage
		joined[i] = item
	}
	return joined
}

// JoinOfferMatches is the offer-collection counterpart of
// JoinApplicationMatches.
func JoinOfferMatches(items []models.Offer, table MatchTable) []models.Offer {
	joined := make([]models.Offer, len(items))
	for i, item := range items {
		item.MatchPercentage = table[item.InternshipID].Percentage
		joined[i] = item
	}
	return joined
}

// ApplicationQuery narrows a collection for display. Search matches
// title, company, and location case-insensitively; Status filters on
// the normalized tag.
type ApplicationQuery struct {
	Search string
	Status string
}

func FilterApplications(items []models.ApplicationRecord, query ApplicationQuery) []models.ApplicationRecord {
	filtered := make([]models.ApplicationRecord, 0, len(items))
	search := strings.ToLower(strings.TrimSpace(query.Search))
	status := strings.TrimSpace(query.Status)

	for _, item := range items {
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Title), search) &&
			!strings.Contains(strings.ToLower(item.Company), search) &&
			!strings.Contains(strings.ToLower(item.Location), search) {
			continue
		}
		if status != "" && status != "all" && string(item.StatusTag()) != status {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// StatusCounts tallies items per normalized status tag for the summary
// cards above the list.
func StatusCounts(items []models.ApplicationRecord) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		counts[string(item.StatusTag())]++
	}
	return counts
}
