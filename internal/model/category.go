package model

type Category struct {
	BaseModel
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	Products    []Product `db:"-" json:"products,omitempty"` // Not in DB table directly
}
