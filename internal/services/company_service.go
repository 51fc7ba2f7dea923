// internal/services/company_service.go
package services

import (
	"context"
	"errors"
	"sort"

	"github.com/internhub/gateway/internal/models"
	"github.com/internhub/gateway/internal/upstream"
)

// ErrInvalidStatus means the requested pipeline status is not one a
// company may set.
var ErrInvalidStatus = errors.New("invalid application status")

// companyStatuses are the pipeline states a company can move an
// application into. The offer outcome states belong to the intern and
// are rejected here.
var companyStatuses = map[models.ApplicationStatus]bool{
	models.StatusPending:     true,
	models.StatusUnderReview: true,
	models.StatusReviewed:    true,
	models.StatusOffered:     true,
	models.StatusRejected:    true,
}

// CompanyService serves the company dashboard's applicant screens.
type CompanyService struct {
	api *upstream.Client
}

func NewCompanyService(api *upstream.Client) *CompanyService {
	return &CompanyService{api: api}
}

// Applicants returns every applicant across the company's postings,
// best match first.
func (s *CompanyService) Applicants(ctx context.Context, token string) ([]models.Applicant, error) {
	applicants, err := s.api.AllCompanyApplicants(ctx, token)
	if err != nil {
		return nil, err
	}
	sortApplicantsByMatch(applicants)
	return applicants, nil
}

// ApplicantsForInternship returns the applicant list for one posting,
// best match first.
func (s *CompanyService) ApplicantsForInternship(ctx context.Context, token, internshipID string) ([]models.Applicant, error) {
	applicants, err := s.api.ApplicantsForInternship(ctx, token, internshipID)
	if err != nil {
		return nil, err
	}
	sortApplicantsByMatch(applicants)
	return applicants, nil
}

// UpdateStatus moves an application through the company pipeline. The
// status is validated locally against the company-settable set before
// the call; the server remains authoritative on transitions it refuses.
func (s *CompanyService) UpdateStatus(ctx context.Context, token, applicationID, status string) (*models.ApplicationRecord, error) {
	if !companyStatuses[models.ClassifyStatus(status)] {
		return nil, ErrInvalidStatus
	}
	return s.api.UpdateApplicationStatus(ctx, token, applicationID, status)
}

func sortApplicantsByMatch(applicants []models.Applicant) {
	sort.SliceStable(applicants, func(i, j int) bool {
		return applicants[i].MatchPercentage > applicants[j].MatchPercentage
	})
}
