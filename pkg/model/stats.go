package model

type AdminStats struct {
	TotalUsers    int64   `json:"total_users"`
	TotalBookings int64   `json:"total_bookings"`
	TotalCars     int64   `json:"total_cars"`
	TotalMessages int64   `json:"total_messages"`
	TotalRevenue  float64 `json:"total_revenue"`
}

type UserStats struct {
	TotalBookings     int64    `json:"total_bookings"`
	ActiveBookings    int64    `json:"active_bookings"`
	CompletedBookings int64    `json:"completed_bookings"`
	TotalSpent        float64  `json:"total_spent"`
	NextBooking       *Booking `json:"next_booking,omitempty"`
}
