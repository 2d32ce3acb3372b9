package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// assignID fills an empty primary key before insert. IDs are minted in Go so
// the schema works the same on Postgres and SQLite.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (c *Category) BeforeCreate(*gorm.DB) error    { assignID(&c.ID); return nil }
func (s *Subcategory) BeforeCreate(*gorm.DB) error { assignID(&s.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error     { assignID(&p.ID); return nil }
func (c *CartItem) BeforeCreate(*gorm.DB) error    { assignID(&c.ID); return nil }
func (a *Address) BeforeCreate(*gorm.DB) error     { assignID(&a.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error       { assignID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(*gorm.DB) error   { assignID(&i.ID); return nil }
