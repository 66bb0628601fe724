// Package domain contains entity without logic, just meta-data
package domain

type (
	RoomID   string
	ClientID string
)

// Room is a named rendezvous point grouping connected clients.
// Participants keep join order; Host, when set, is one of them.
type Room struct {
	ID           RoomID     `json:"id"`
	Host         ClientID   `json:"host"`
	Participants []ClientID `json:"participants"`
}
