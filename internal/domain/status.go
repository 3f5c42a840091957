package domain

type (
	// AssignmentStatus represents the lifecycle state of an offer.
	AssignmentStatus string
	// AssignmentKind distinguishes recipient offers from transport tasks.
	AssignmentKind string
	// MatchingStatus represents where a donation is in the matching flow.
	MatchingStatus string
)

// List of possible assignment statuses
const (
	AssignmentPending  AssignmentStatus = "pending"
	AssignmentAccepted AssignmentStatus = "accepted"
	AssignmentRejected AssignmentStatus = "rejected"
	AssignmentExpired  AssignmentStatus = "expired"
)

// List of possible assignment kinds
const (
	KindOrgOffer      AssignmentKind = "ORG_OFFER"
	KindTransportTask AssignmentKind = "TRANSPORT_TASK"
)

// List of possible donation matching statuses
const (
	MatchingPendingNGO             MatchingStatus = "pending_ngo"
	MatchingPendingVolunteer       MatchingStatus = "pending_volunteer"
	MatchingNoMatchFound           MatchingStatus = "no_match_found"
	MatchingPendingVolunteerManual MatchingStatus = "pending_volunteer_manual"
	MatchingFailedInvalidLocation  MatchingStatus = "failed_invalid_location"
	MatchingFailedNoCandidates     MatchingStatus = "failed_no_candidates"
	MatchingFailedMaxRetries       MatchingStatus = "failed_max_retries"
)

// DonationListed is the donor-side status a donation must carry to enter matching.
const DonationListed = "listed"

var allowedAssignmentStatuses = [...]AssignmentStatus{
	AssignmentPending, AssignmentAccepted, AssignmentRejected, AssignmentExpired,
}

var allowedKinds = [...]AssignmentKind{KindOrgOffer, KindTransportTask}

// Valid checks if the AssignmentStatus is valid
func (s AssignmentStatus) Valid() bool {
	for _, v := range allowedAssignmentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentAccepted || s == AssignmentRejected || s == AssignmentExpired
}

// Failed reports whether s ends the offer without the assignee taking it.
func (s AssignmentStatus) Failed() bool {
	return s == AssignmentRejected || s == AssignmentExpired
}

// Valid checks if the AssignmentKind is valid
func (k AssignmentKind) Valid() bool {
	for _, v := range allowedKinds {
		if k == v {
			return true
		}
	}
	return false
}

// PendingStatus returns the donation matching status set while an offer of kind k is open.
func (k AssignmentKind) PendingStatus() MatchingStatus {
	if k == KindTransportTask {
		return MatchingPendingVolunteer
	}
	return MatchingPendingNGO
}

// Terminal reports whether the donation needs manual intervention to move on.
func (s MatchingStatus) Terminal() bool {
	switch s {
	case MatchingFailedInvalidLocation, MatchingFailedNoCandidates, MatchingFailedMaxRetries:
		return true
	default:
		return false
	}
}
