package model

import "time"

// Task is a time-bounded assignment of a responsible person, who must
// belong to the assigned team.
type Task struct {
	ID        string     `bson:"_id,omitempty" json:"id" validate:"omitempty,mongodb"`
	Name      string     `bson:"name" json:"name" validate:"required,min=1,max=200"`
	TeamID    string     `bson:"team_id" json:"team_id" validate:"required,mongodb"`
	PersonID  string     `bson:"person_id" json:"person_id" validate:"required,mongodb"`
	StartDate time.Time  `bson:"start_date" json:"start_date" validate:"required"`
	EndDate   *time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at" validate:"omitempty"`
}

type TaskUpdate struct {
	Name      string     `json:"name"`
	TeamID    string     `json:"team_id"`
	PersonID  string     `json:"person_id"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}
