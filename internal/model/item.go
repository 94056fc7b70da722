// Package model defines the persisted entities, their create, update, and
// read schemas, and the handlers binding them to the repository engine.
package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"

	"github.com/verano-labs/go-entity-cache/repository"
)

// DefaultItemName is applied when a create request omits the name.
const DefaultItemName = "rookie"

// Item is a catalog entry. The column names carry legacy spellings from the
// production schema and must not be corrected without a migration.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID          int64  `bun:"iditems,pk,autoincrement" json:"id"`
	Name        string `bun:"name,notnull" json:"name"`
	Discription string `bun:"discription" json:"discription"`
	Level       int    `bun:"level" json:"level"`
}

// ItemCreate is the create input schema for items.
type ItemCreate struct {
	Name        string `json:"name"`
	Discription string `json:"discription"`
	Level       int    `json:"level"`
}

// Validate checks the create input against the schema constraints.
func (c ItemCreate) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Length(0, 120)),
		validation.Field(&c.Discription, validation.Length(0, 500)),
		validation.Field(&c.Level, validation.Min(0)),
	)
}

// ItemUpdate is the update input schema for items. Absent fields keep their
// zero value and overwrite; partial updates are not supported.
type ItemUpdate struct {
	Name        string `json:"name"`
	Discription string `json:"discription"`
	Level       int    `json:"level"`
}

// Validate checks the update input against the schema constraints.
func (u ItemUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&u.Discription, validation.Length(0, 500)),
		validation.Field(&u.Level, validation.Min(0)),
	)
}

// ItemRead is the outward projection of an item.
type ItemRead struct {
	ID          int64  `json:"id" msgpack:"id"`
	Name        string `json:"name" msgpack:"name"`
	Discription string `json:"discription" msgpack:"discription"`
	Level       int    `json:"level" msgpack:"level"`
}

// ItemHandlers binds the item schemas to the engine.
func ItemHandlers() repository.Handlers[Item, ItemCreate, ItemUpdate, ItemRead] {
	return repository.Handlers[Item, ItemCreate, ItemUpdate, ItemRead]{
		Table:    "items",
		PKColumn: "iditems",
		PKValue:  func(i *Item) int64 { return i.ID },
		FromCreate: func(in ItemCreate) *Item {
			name := in.Name
			if name == "" {
				name = DefaultItemName
			}
			return &Item{Name: name, Discription: in.Discription, Level: in.Level}
		},
		ApplyUpdate: func(i *Item, in ItemUpdate) {
			i.Name = in.Name
			i.Discription = in.Discription
			i.Level = in.Level
		},
		ToRead: func(i *Item) ItemRead {
			return ItemRead{ID: i.ID, Name: i.Name, Discription: i.Discription, Level: i.Level}
		},
	}
}
