package entity

import "time"

// Category agrupa productos; nombre único. Se asocia a un conjunto de características.
type Category struct {
	ID              string
	Name            string
	Characteristics []*Characteristic
	CreatedAt       time.Time
}
