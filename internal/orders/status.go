package orders

// Statuses the app itself assigns. The admin form accepts free text, so the
// store treats status as an open set; these are only the well-known values.
const (
	StatusPending   = "Pending"
	StatusDelivered = "Delivered"
)
