package offers

import "food-rescue-matching/internal/domain"

type message struct{ title, body string }

var messages = map[domain.AssignmentKind]message{
	domain.KindOrgOffer: {
		title: "New Donation Match",
		body:  "We found a donation that matches your needs.",
	},
	domain.KindTransportTask: {
		title: "New Delivery Task",
		body:  "You have been assigned to pick up a donation.",
	},
}

func notificationFor(a domain.Assignment) domain.Notification {
	m := messages[a.Kind]
	return domain.Notification{
		RecipientID: a.AssigneeID,
		Title:       m.title,
		Body:        m.body,
		Data: map[string]string{
			"donationId":     a.DonationID,
			"type":           "assignment",
			"assignmentType": string(a.Kind),
		},
	}
}
