// Package queue defines the message payloads exchanged over the broker
// and the background consumer that records them.
package queue

// RequestCreatedEvent is published after a maintenance request is
// created. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type RequestCreatedEvent struct {
	RequestID     uint64  `json:"request_id"`
	Subject       string  `json:"subject"`
	RequestType   string  `json:"request_type"`
	EquipmentID   uint64  `json:"equipment_id"`
	EquipmentName string  `json:"equipment_name"`
	TeamID        uint64  `json:"team_id"`
	RequesterID   uint64  `json:"requester_id"`
	AssignedToID  *uint64 `json:"assigned_to_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// EquipmentScrappedEvent is published after a scrap transition commits,
// i.e. the request reached the scrap stage and the linked equipment was
// marked unusable.
type EquipmentScrappedEvent struct {
	RequestID     uint64 `json:"request_id"`
	EquipmentID   uint64 `json:"equipment_id"`
	EquipmentName string `json:"equipment_name"`
	Reason        string `json:"reason"`
	ScrappedAt    string `json:"scrapped_at"`
}
