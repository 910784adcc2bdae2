package domain

// Address is the delivery address snapshot frozen into an order. Later edits
// to the stored address never alter orders that reference it.
type Address struct {
	ID           uint
	Street       string
	Number       string
	Neighborhood string
	PostalCode   string
	City         string
	State        string
	Complement   string
	Latitude     float64
	Longitude    float64
}
