package model

import "time"

type Team struct {
	ID        string    `bson:"_id,omitempty" json:"id" validate:"omitempty,mongodb"`
	Name      string    `bson:"name" json:"name" validate:"required,min=1,max=32"`
	LongName  string    `bson:"longname" json:"longname" validate:"omitempty,max=200"`
	Color     string    `bson:"color" json:"color" validate:"omitempty,hexcolor"`
	CreatedAt time.Time `bson:"created_at" json:"created_at" validate:"omitempty"`
}

type TeamUpdate struct {
	Name     string  `json:"name"`
	LongName *string `json:"longname"`
	Color    *string `json:"color"`
}
