package entity

// Characteristic definición de atributo reutilizable (nombre único).
type Characteristic struct {
	ID   string
	Name string
}
