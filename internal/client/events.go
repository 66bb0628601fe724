package client

import "encoding/json"

// envelope covers every inbound event shape; unused fields stay zero.
type envelope struct {
	Type         string          `json:"type"`
	ClientID     string          `json:"clientId,omitempty"`
	UserID       string          `json:"userId,omitempty"`
	NewHost      string          `json:"newHost,omitempty"`
	Participants []string        `json:"participants,omitempty"`
	FromID       string          `json:"fromId,omitempty"`
	Offer        json.RawMessage `json:"offer,omitempty"`
	Answer       json.RawMessage `json:"answer,omitempty"`
	Candidate    json.RawMessage `json:"candidate,omitempty"`
}

type joinRoomMsg struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	IsHost bool   `json:"isHost"`
}

type offerMsg struct {
	Type     string          `json:"type"`
	Offer    json.RawMessage `json:"offer"`
	TargetID string          `json:"targetId"`
	RoomID   string          `json:"roomId"`
}

type answerMsg struct {
	Type     string          `json:"type"`
	Answer   json.RawMessage `json:"answer"`
	TargetID string          `json:"targetId"`
	RoomID   string          `json:"roomId"`
}

type candidateMsg struct {
	Type      string          `json:"type"`
	Candidate json.RawMessage `json:"candidate"`
	TargetID  string          `json:"targetId"`
	RoomID    string          `json:"roomId"`
}
