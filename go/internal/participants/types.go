package participants

// CreateParticipantRequest represents the data needed to add a drafter
type CreateParticipantRequest struct {
	Name           string  `json:"name"`
	Email          *string `json:"email,omitempty"`
	ExternalAuthID *string `json:"external_auth_id,omitempty"`
}
