package entity

import (
	"time"
)

// WalletState is the external connect/disconnect signal that drives the
// profile lifecycle.
type WalletState struct {
	Connected bool   `json:"connected"`
	PublicKey string `json:"publicKey,omitempty"`
}

func (w WalletState) Active() bool {
	return w.Connected && w.PublicKey != ""
}

type Session struct {
	ID          string    `json:"id"`
	PublicKey   string    `json:"publicKey"`
	ConnectedAt time.Time `json:"connectedAt"`
	LastSeen    time.Time `json:"lastSeen"`
}
