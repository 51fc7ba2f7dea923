// internal/models/application.go
package models

import "time"

// ApplicationRecord is one intern's submission to one internship
// posting as returned by GET /applications/my-applications. Identity and
// descriptive fields are server-owned display copies taken at fetch
// time; only Status and the offer dates ever change, and only on the
// server. The client never deletes a record, it re-fetches the full
// collection.
type ApplicationRecord struct {
	ID            string `json:"id"`
	ApplicationID string `json:"application_id"`
	InternshipID  string `json:"internship_id"`
	CompanyID     string `json:"company_id"`

	Title    string  `json:"title"`
	Position string  `json:"position,omitempty"`
	Company  string  `json:"company"`
	Location string  `json:"location,omitempty"`
	Stipend  float64 `json:"stipend,omitempty"`
	Salary   string  `json:"salary,omitempty"`
	Duration string  `json:"duration,omitempty"`
	Type     string  `json:"type,omitempty"`

	Status            string     `json:"status"`
	ApplicationDate   *Timestamp `json:"application_date"`
	OfferSentDate     *Timestamp `json:"offer_sent_date"`
	OfferResponseDate *Timestamp `json:"offer_response_date"`
	Deadline          *Timestamp `json:"deadline,omitempty"`

	Description    string    `json:"description,omitempty"`
	RequiredSkills SkillList `json:"required_skills,omitempty"`

	// MatchPercentage is filled in by the match join, never by the
	// applications endpoint itself.
	MatchPercentage float64 `json:"match_percentage"`
}

// StatusTag returns the normalized status of the record.
func (a ApplicationRecord) StatusTag() ApplicationStatus {
	return ClassifyStatus(a.Status)
}

// AppliedAt returns the application date, zero if the server omitted it.
func (a ApplicationRecord) AppliedAt() time.Time {
	if a.ApplicationDate == nil {
		return time.Time{}
	}
	return a.ApplicationDate.Time
}

// Offer is the my-offers / respond payload: an application that has
// progressed to a company-initiated offer, with the offer dates and the
// posting's start date attached.
type Offer struct {
	ID            string `json:"id"`
	ApplicationID string `json:"application_id"`
	InternshipID  string `json:"internship_id"`
	CompanyID     string `json:"company_id"`

	Title    string  `json:"title"`
	Position string  `json:"position,omitempty"`
	Company  string  `json:"company"`
	Location string  `json:"location,omitempty"`
	Stipend  float64 `json:"stipend,omitempty"`
	Salary   string  `json:"salary,omitempty"`
	Duration string  `json:"duration,omitempty"`
	Type     string  `json:"type,omitempty"`

	StartDate *Timestamp `json:"startDate,omitempty"`

	Status            string     `json:"status"`
	ApplicationDate   *Timestamp `json:"application_date"`
	OfferSentDate     *Timestamp `json:"offer_sent_date"`
	OfferResponseDate *Timestamp `json:"offer_response_date"`
	Deadline          *Timestamp `json:"deadline,omitempty"`

	MatchPercentage float64 `json:"match_percentage"`
}

func (o Offer) StatusTag() ApplicationStatus {
	return ClassifyStatus(o.Status)
}

func (o Offer) AppliedAt() time.Time {
	if o.ApplicationDate == nil {
		return time.Time{}
	}
	return o.ApplicationDate.Time
}

// OfferResponseChoice is the intern's answer to a pending offer.
type OfferResponseChoice string

const (
	OfferAccepted OfferResponseChoice = "accepted"
	OfferDeclined OfferResponseChoice = "declined"
)

// Internship is a posting as returned by the browse and with-match
// endpoints. MatchPercentage and the skill breakdowns are computed
// server-side for the calling intern and are zero/empty on public
// listings.
type Internship struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name,omitempty"`

	Location string  `json:"location,omitempty"`
	Stipend  float64 `json:"stipend,omitempty"`
	Duration string  `json:"duration,omitempty"`
	Type     string  `json:"type,omitempty"`
	Level    string  `json:"level,omitempty"`
	Category string  `json:"category,omitempty"`

	Skills         SkillList `json:"skills,omitempty"`
	RequiredSkills SkillList `json:"required_skills,omitempty"`
	Requirements   string    `json:"requirements,omitempty"`
	Benefits       string    `json:"benefits,omitempty"`

	Deadline   *Timestamp `json:"deadline,omitempty"`
	DatePosted *Timestamp `json:"date_posted,omitempty"`
	Status     string     `json:"status,omitempty"`

	ApplicantCount  int       `json:"applicant_count,omitempty"`
	MatchPercentage float64   `json:"match_percentage"`
	MatchingSkills  SkillList `json:"matching_skills,omitempty"`
	MissingSkills   SkillList `json:"missing_skills,omitempty"`
}

// MatchEntry is one row of the read-only match side table, keyed by
// internship id. Absence of a key means no match was computed.
type MatchEntry struct {
	Percentage     float64
	MatchingSkills []string
	MissingSkills  []string
}

// Applicant is the company-side view of an application, including the
// computed match score for the posting's requirements.
type Applicant struct {
	ApplicationID string `json:"application_id"`
	ApplicantID   string `json:"applicant_id"`

	Name           string    `json:"name,omitempty"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	University     string    `json:"university,omitempty"`
	Major          string    `json:"major,omitempty"`
	GraduationYear string    `json:"graduation_year,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	Skills         SkillList `json:"skills,omitempty"`

	MatchPercentage float64   `json:"match_percentage"`
	MatchingSkills  SkillList `json:"matching_skills,omitempty"`
	MissingSkills   SkillList `json:"missing_skills,omitempty"`

	Status            string     `json:"status"`
	AppliedDate       *Timestamp `json:"applied_date"`
	InternshipTitle   string     `json:"internship_title"`
	InternshipID      string     `json:"internship_id"`
	OfferSentDate     *Timestamp `json:"offer_sent_date"`
	OfferResponseDate *Timestamp `json:"offer_response_date"`
}
