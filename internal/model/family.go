package model

import "time"

type Family struct {
	ID           int64     `json:"id"`
	FamilyID     string    `json:"familyId"`
	HeadOfFamily string    `json:"headOfFamily"`
	NumMembers   int       `json:"numMembers"`
	MemberList   []string  `json:"memberList"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Aadhaar      string    `json:"aadhaar,omitempty"`
	CardType     string    `json:"cardType,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
