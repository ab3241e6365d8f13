package model

import "time"

// Channel is a registered channel in the dashboard's channel registry.
type Channel struct {
	ChannelID   string    `json:"channelId"`
	Name        string    `json:"name"`
	GroupID     *string   `json:"groupId,omitempty"`
	TeamID      *string   `json:"teamId,omitempty"`
	Monetized   bool      `json:"monetized"`
	AddedAt     time.Time `json:"addedAt"`
	LastFetched time.Time `json:"-"`
}

// ChannelGroup is an explicit, ordered selection of channels for aggregate
// and compare views. Position order is the ranking tie-break order.
type ChannelGroup struct {
	GroupID   string    `json:"groupId"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Team is the smallest organizational unit; every team belongs to a branch.
type Team struct {
	TeamID   string `json:"teamId"`
	BranchID string `json:"branchId"`
	Name     string `json:"name"`
}

// Branch is an organizational unit grouping teams.
type Branch struct {
	BranchID string `json:"branchId"`
	Name     string `json:"name"`
}
