package domain

// NotificationPreference mirrors the contact preference record held by the
// notification service. The core only reads and upserts it through the
// gateway; the notification service owns the data.
type NotificationPreference struct {
	UserID      string
	Type        string
	Enabled     bool
	ContactInfo string
}
