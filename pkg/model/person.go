package model

import "time"

type Person struct {
	ID        string    `bson:"_id,omitempty" json:"id" validate:"omitempty,mongodb"`
	FirstName string    `bson:"firstname" json:"firstname" validate:"required,min=1,max=100"`
	LastName  string    `bson:"lastname" json:"lastname" validate:"required,min=1,max=100"`
	Birthdate time.Time `bson:"birthdate" json:"birthdate" validate:"required"`
	Email     string    `bson:"email" json:"email" validate:"omitempty,email"`
	TeamIDs   []string  `bson:"team_ids" json:"team_ids" validate:"omitempty,dive,mongodb"`
	CreatedAt time.Time `bson:"created_at" json:"created_at" validate:"omitempty"`
}

func (p *Person) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

func (p *Person) MemberOf(teamID string) bool {
	for _, id := range p.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

type PersonUpdate struct {
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	Birthdate time.Time `json:"birthdate"`
	Email     *string   `json:"email"`
	TeamIDs   []string  `json:"team_ids"`
}
