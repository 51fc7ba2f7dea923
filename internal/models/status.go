// internal/models/status.go
package models

import "strings"

// ApplicationStatus is the closed set of normalized application states.
// Raw status strings from the marketplace API arrive in mixed case and
// with either spaces or underscores as separators; ClassifyStatus is the
// single place they are normalized.
type ApplicationStatus string

const (
	StatusOffered     ApplicationStatus = "offered"
	StatusAccepted    ApplicationStatus = "accepted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusReviewed    ApplicationStatus = "reviewed"
	StatusPending     ApplicationStatus = "pending"
	StatusApplied     ApplicationStatus = "applied"
	StatusRejected    ApplicationStatus = "rejected"
	StatusDeclined    ApplicationStatus = "declined"
)

// StatusInfo carries the display metadata and sort priority associated
// with a status. Priority 1 is the most urgent (offer awaiting response),
// 8 the least.
type StatusInfo struct {
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	Label    string `json:"label"`
	Priority int    `json:"priority"`
}

var statusTable = map[ApplicationStatus]StatusInfo{
	StatusOffered:     {Icon: "gift", Color: "purple", Label: "Offer Pending", Priority: 1},
	StatusAccepted:    {Icon: "check-circle", Color: "green", Label: "Accepted", Priority: 2},
	StatusUnderReview: {Icon: "eye", Color: "blue", Label: "Under Review", Priority: 3},
	StatusReviewed:    {Icon: "users", Color: "teal", Label: "Reviewed", Priority: 4},
	StatusPending:     {Icon: "clock", Color: "yellow", Label: "Pending", Priority: 5},
	StatusApplied:     {Icon: "alert-circle", Color: "gray", Label: "Applied", Priority: 6},
	StatusRejected:    {Icon: "x-circle", Color: "red", Label: "Rejected", Priority: 7},
	StatusDeclined:    {Icon: "x-circle", Color: "gray", Label: "Declined", Priority: 8},
}

// ClassifyStatus maps a raw status string to its normalized tag.
// Unrecognized input falls back to StatusApplied rather than failing;
// an unknown server-side state should never break the dashboard.
func ClassifyStatus(raw string) ApplicationStatus {
	normalized := ApplicationStatus(strings.Replace(strings.ToLower(raw), " ", "_", 1))
	if _, ok := statusTable[normalized]; ok {
		return normalized
	}
	return StatusApplied
}

// Info returns the display metadata for the status.
func (s ApplicationStatus) Info() StatusInfo {
	if info, ok := statusTable[s]; ok {
		return info
	}
	return statusTable[StatusApplied]
}

// Priority returns the sort rank for the status (1 = first).
func (s ApplicationStatus) Priority() int {
	return s.Info().Priority
}

// IsTerminal reports whether the status is a final offer outcome.
// A terminal record can never transition again.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}
