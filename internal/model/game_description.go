package model

import "time"

// GameDescription is a catalog entry shared by every deposited copy of a game.
type GameDescription struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Publisher   string    `json:"publisher"`
	PhotoURL    string    `json:"photoURL"`
	Description string    `json:"description"`
	MinPlayers  int       `json:"minPlayers"`
	MaxPlayers  int       `json:"maxPlayers"`
	AgeRange    string    `json:"ageRange"`
	CreatedAt   time.Time `json:"createdAt"`
}
