package domain

// Notification is a push message for one assignee.
type Notification struct {
	RecipientID string
	Title       string
	Body        string
	Data        map[string]string
}
