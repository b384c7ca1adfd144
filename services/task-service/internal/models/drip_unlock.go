package models

// DripUnlock is a student whose next course day opens on a given date
type DripUnlock struct {
	UserID    int    `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	DayNumber int    `json:"dayNumber"`
}
