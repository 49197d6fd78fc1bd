package model

// Role is a numeric authorization scope. Role 0 is the administrator
// role and gates every mutating and operational endpoint.
type Role int

const (
	RoleAdmin Role = 0
	RoleUser  Role = 1
)

type User struct {
	ID       int64  `bson:"_id" json:"id"`
	Username string `bson:"username" json:"username" validate:"required,min=2,max=64"`
	Password string `bson:"password" json:"-" validate:"required"`
	Roles    []Role `bson:"roles" json:"roles" validate:"required,min=1"`
}

// Identity is the resolved acting identity attached to each
// authenticated request.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Roles    []Role `json:"roles"`
}

func (i Identity) HasRole(roles ...Role) bool {
	for _, want := range roles {
		for _, have := range i.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

func (i Identity) IsAdmin() bool {
	return i.HasRole(RoleAdmin)
}
