package models

// LeadEvent — сообщение в топике lead_events.
// Для lead_deleted поле Lead пустое, достаточно LeadID.
type LeadEvent struct {
	Event  string `json:"event"`
	LeadID string `json:"leadId"`
	Lead   *Lead  `json:"lead,omitempty"`
}
