package model

// DashboardStats are the four live aggregates on the landing screen. Always
// recomputed; nothing here is cached.
type DashboardStats struct {
	ActivePatients     int     `json:"active_patients"`
	TodaysAppointments int     `json:"todays_appointments"`
	ActiveDoctors      int     `json:"active_doctors"`
	MonthRevenue       float64 `json:"month_revenue"`
}
