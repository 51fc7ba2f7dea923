// internal/services/collection_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/internhub/gateway/internal/models"
)

func record(id, status string, appliedAt time.Time) models.ApplicationRecord {
	return models.ApplicationRecord{
		ID:              id,
		ApplicationID:   id,
		InternshipID:    "internship-" + id,
		Title:           "Role " + id,
		Company:         "Company " + id,
		Status:          status,
		ApplicationDate: &models.Timestamp{Time: appliedAt},
	}
}

func TestSortByPriorityOrdersByStatusThenRecency(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	input := []models.ApplicationRecord{
		record("rejected", "rejected", base),
		record("old-offer", "Offered", base.Add(-48*time.Hour)),
		record("applied", "applied", base),
		record("new-offer", "offered", base),
		record("review", "Under Review", base),
	}

	sorted := SortByPriority(input)

	var ids []string
	for _, item := range sorted {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"new-offer", "old-offer", "review", "applied", "rejected"}, ids)

	// Input order is untouched.
	assert.Equal(t, "rejected", input[0].ID)
}

func TestSortByPriorityIdempotent(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	input := []models.ApplicationRecord{
		record("a", "pending", base.Add(time.Hour)),
		record("b", "pending", base.Add(2*time.Hour)),
		record("c", "offered", base),
	}

	once := SortByPriority(input)
	twice := SortByPriority(once)
	assert.Equal(t, once, twice)
}

func TestSortByPriorityUnknownStatusSortsAsApplied(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sorted := SortByPriority([]models.ApplicationRecord{
		record("mystery", "shortlisted", base),
		record("rejected", "rejected", base),
		record("pending", "pending", base),
	})

	assert.Equal(t, "pending", sorted[0].ID)
	assert.Equal(t, "mystery", sorted[1].ID)
	assert.Equal(t, "rejected", sorted[2].ID)
}

func TestJoinApplicationMatches(t *testing.T) {
	items := []models.ApplicationRecord{
		{ApplicationID: "a1", InternshipID: "x"},
		{ApplicationID: "a2", InternshipID: "y"},
	}
	table := MatchTable{"x": {Percentage: 72}}

	joined := JoinApplicationMatches(items, table)
	require.Len(t, joined, 2)
	assert.Equal(t, 72.0, joined[0].MatchPercentage)
	assert.Equal(t, 0.0, joined[1].MatchPercentage)

	// Pure join: the input is untouched.
	assert.Equal(t, 0.0, items[0].MatchPercentage)
}

func TestBuildMatchTable(t *testing.T) {
	table := BuildMatchTable([]models.Internship{
		{ID: "x", MatchPercentage: 72, MatchingSkills: models.SkillList{"Go"}},
		{ID: "y", MatchPercentage: 31},
	})

	assert.Equal(t, 72.0, table["x"].Percentage)
	assert.Equal(t, []string{"Go"}, table["x"].MatchingSkills)
	assert.Equal(t, 0.0, table["missing"].Percentage)
}

func TestFilterApplications(t *testing.T) {
	base := time.Now()
	items := []models.ApplicationRecord{
		record("a", "offered", base),
		record("b", "rejected", base),
	}
	items[0].Title = "Backend Intern"
	items[0].Company = "Acme Corp"
	items[1].Title = "Data Intern"
	items[1].Company = "Globex"

	assert.Len(t, FilterApplications(items, ApplicationQuery{Search: "acme"}), 1)
	assert.Len(t, FilterApplications(items, ApplicationQuery{Search: "intern"}), 2)
	assert.Len(t, FilterApplications(items, ApplicationQuery{Status: "rejected"}), 1)
	assert.Len(t, FilterApplications(items, ApplicationQuery{Status: "all"}), 2)
	assert.Empty(t, FilterApplications(items, ApplicationQuery{Search: "acme", Status: "rejected"}))
}

func TestStatusCounts(t *testing.T) {
	base := time.Now()
	counts := StatusCounts([]models.ApplicationRecord{
		record("a", "offered", base),
		record("b", "Under Review", base),
		record("c", "under_review", base),
		record("d", "totally-new-state", base),
	})

	assert.Equal(t, 1, counts["offered"])
	assert.Equal(t, 2, counts["under_review"])
	assert.Equal(t, 1, counts["applied"])
}
