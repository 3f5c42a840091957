package matching

import (
	"context"
	"strings"
)

type actionFunc func(context.Context, Event) error

type actionFactory struct {
	byType map[string]actionFunc
}

func newActionFactory(onDonationCreated, onAssignmentCreated, onAssignmentUpdated actionFunc) *actionFactory {
	return &actionFactory{
		byType: map[string]actionFunc{
			EventDonationCreated:   onDonationCreated,
			EventAssignmentCreated: onAssignmentCreated,
			EventAssignmentUpdated: onAssignmentUpdated,
		},
	}
}

func (f *actionFactory) get(eventType string) (actionFunc, bool) {
	eventType = strings.ToLower(strings.TrimSpace(eventType))
	fn, ok := f.byType[eventType]
	return fn, ok
}
