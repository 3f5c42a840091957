// Package memstore is an in-memory matching store for service tests.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"food-rescue-matching/internal/apperr"
	"food-rescue-matching/internal/domain"
	"food-rescue-matching/internal/geo"
	"food-rescue-matching/internal/ports/matchingtx"
)

type state struct {
	donations    map[string]domain.Donation
	orgs         map[string]domain.Organization
	transporters map[string]domain.Transporter
	assignments  []domain.Assignment
	outbox       []domain.Transition
}

func (s *state) clone() *state {
	out := &state{
		donations:    make(map[string]domain.Donation, len(s.donations)),
		orgs:         make(map[string]domain.Organization, len(s.orgs)),
		transporters: make(map[string]domain.Transporter, len(s.transporters)),
		assignments:  append([]domain.Assignment(nil), s.assignments...),
		outbox:       append([]domain.Transition(nil), s.outbox...),
	}
	for k, v := range s.donations {
		out.donations[k] = v
	}
	for k, v := range s.orgs {
		out.orgs[k] = v
	}
	for k, v := range s.transporters {
		out.transporters[k] = v
	}
	return out
}

// Store implements matchingtx.Store, the organization range source and the transporter source.
// Transactions are serialized and roll back by restoring a snapshot.
type Store struct {
	txMu   sync.Mutex
	mu     sync.Mutex
	st     *state
	faults map[string]error
}

var _ matchingtx.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		st: &state{
			donations:    map[string]domain.Donation{},
			orgs:         map[string]domain.Organization{},
			transporters: map[string]domain.Transporter{},
		},
		faults: map[string]error{},
	}
}

// Fail makes every later call of the named method return err; a nil err clears it.
func (s *Store) Fail(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, method)
		return
	}
	s.faults[method] = err
}

// PutDonation inserts or replaces a donation.
func (s *Store) PutDonation(d domain.Donation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.donations[d.ID] = d
}

// PutOrganization inserts or replaces an organization, indexing its location.
func (s *Store) PutOrganization(o domain.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.Geohash = ""
	if o.Location.Valid() {
		o.Geohash = geo.Encode(o.Location)
	}
	s.st.orgs[o.ID] = o
}

// PutTransporter inserts or replaces a transporter.
func (s *Store) PutTransporter(t domain.Transporter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.transporters[t.ID] = t
}

// PutAssignment appends an assignment without any invariant checks.
func (s *Store) PutAssignment(a domain.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.assignments = append(s.st.assignments, a)
}

// Donation returns the stored donation.
func (s *Store) Donation(id string) (domain.Donation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.st.donations[id]
	return d, ok
}

// Transporter returns the stored transporter.
func (s *Store) Transporter(id string) (domain.Transporter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.st.transporters[id]
	return t, ok
}

// Assignments returns every assignment of a donation in creation order.
func (s *Store) Assignments(donationID string) []domain.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Assignment
	for _, a := range s.st.assignments {
		if a.DonationID == donationID {
			out = append(out, a)
		}
	}
	return out
}

// WithTx runs fn against the store and restores the previous state if fn fails.
func (s *Store) WithTx(_ context.Context, fn func(tx matchingtx.Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) fault(method string) error {
	if err, ok := s.faults[method]; ok {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// GetDonation implements matchingtx.Repository.
func (s *Store) GetDonation(_ context.Context, id string) (*domain.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("GetDonation"); err != nil {
		return nil, err
	}
	d, ok := s.st.donations[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

// PatchDonation implements matchingtx.Repository.
func (s *Store) PatchDonation(_ context.Context, id string, p domain.DonationPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("PatchDonation"); err != nil {
		return err
	}
	d, ok := s.st.donations[id]
	if !ok {
		return fmt.Errorf("donation %q: %w", id, apperr.ErrNotFound)
	}
	if p.UrgencyScore != nil {
		v := *p.UrgencyScore
		d.UrgencyScore = &v
	}
	if p.MatchingStatus != nil {
		d.MatchingStatus = *p.MatchingStatus
	}
	if p.ManualReviewRequired != nil {
		d.ManualReviewRequired = *p.ManualReviewRequired
	}
	s.st.donations[id] = d
	return nil
}

// GetOrganization implements matchingtx.Repository.
func (s *Store) GetOrganization(_ context.Context, id string) (*domain.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("GetOrganization"); err != nil {
		return nil, err
	}
	o, ok := s.st.orgs[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// GetAssignment implements matchingtx.Repository.
func (s *Store) GetAssignment(_ context.Context, id string) (*domain.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("GetAssignment"); err != nil {
		return nil, err
	}
	for _, a := range s.st.assignments {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

// ListAssignments implements matchingtx.Repository.
func (s *Store) ListAssignments(
	_ context.Context,
	donationID string,
	kind domain.AssignmentKind,
) ([]domain.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ListAssignments"); err != nil {
		return nil, err
	}
	var out []domain.Assignment
	for _, a := range s.st.assignments {
		if a.DonationID == donationID && (kind == "" || a.Kind == kind) {
			out = append(out, a)
		}
	}
	return out, nil
}

// InsertAssignment implements matchingtx.Repository.
func (s *Store) InsertAssignment(_ context.Context, a *domain.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("InsertAssignment"); err != nil {
		return err
	}
	if _, ok := s.st.donations[a.DonationID]; !ok {
		return fmt.Errorf("donation %q: %w", a.DonationID, apperr.ErrNotFound)
	}
	for _, cur := range s.st.assignments {
		if cur.ID == a.ID {
			return apperr.ErrConflict
		}
		if a.Status == domain.AssignmentPending && cur.Status == domain.AssignmentPending &&
			cur.DonationID == a.DonationID && cur.Kind == a.Kind {
			return apperr.ErrConflict
		}
	}
	s.st.assignments = append(s.st.assignments, *a)
	return nil
}

// TransitionAssignment implements matchingtx.Repository.
func (s *Store) TransitionAssignment(
	_ context.Context,
	id string,
	from, to domain.AssignmentStatus,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("TransitionAssignment"); err != nil {
		return false, err
	}
	for i := range s.st.assignments {
		a := &s.st.assignments[i]
		if a.ID != id {
			continue
		}
		if a.Status != from {
			return false, nil
		}
		a.Status = to
		return true, nil
	}
	return false, nil
}

// ExpirePending implements matchingtx.Repository.
func (s *Store) ExpirePending(_ context.Context, now time.Time) ([]domain.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ExpirePending"); err != nil {
		return nil, err
	}
	var out []domain.Assignment
	for i := range s.st.assignments {
		a := &s.st.assignments[i]
		if a.ExpiredAt(now) {
			a.Status = domain.AssignmentExpired
			out = append(out, *a)
		}
	}
	return out, nil
}

// AdjustActiveTasks implements matchingtx.Repository.
func (s *Store) AdjustActiveTasks(_ context.Context, transporterID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("AdjustActiveTasks"); err != nil {
		return err
	}
	t, ok := s.st.transporters[transporterID]
	if !ok {
		return fmt.Errorf("transporter %q: %w", transporterID, apperr.ErrNotFound)
	}
	t.ActiveTasks = max(t.ActiveTasks+delta, 0)
	s.st.transporters[transporterID] = t
	return nil
}

// EnqueueTransition implements matchingtx.Repository. Entries keep insertion order.
func (s *Store) EnqueueTransition(_ context.Context, t domain.Transition, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("EnqueueTransition"); err != nil {
		return err
	}
	for _, cur := range s.st.outbox {
		if cur.AssignmentID == t.AssignmentID {
			return nil
		}
	}
	s.st.outbox = append(s.st.outbox, t)
	return nil
}

// PendingTransitions implements matchingtx.Repository.
func (s *Store) PendingTransitions(_ context.Context, limit int) ([]domain.Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("PendingTransitions"); err != nil {
		return nil, err
	}
	n := min(limit, len(s.st.outbox))
	return append([]domain.Transition(nil), s.st.outbox[:n]...), nil
}

// AckTransition implements matchingtx.Repository.
func (s *Store) AckTransition(_ context.Context, assignmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("AckTransition"); err != nil {
		return err
	}
	for i, cur := range s.st.outbox {
		if cur.AssignmentID == assignmentID {
			s.st.outbox = append(s.st.outbox[:i:i], s.st.outbox[i+1:]...)
			return nil
		}
	}
	return nil
}

// QueryRange returns verified organizations whose geohash lies in r.
func (s *Store) QueryRange(_ context.Context, r geo.Range) ([]domain.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("QueryRange"); err != nil {
		return nil, err
	}
	var out []domain.Organization
	for _, o := range s.st.orgs {
		if o.Verified && o.Geohash >= r.Start && o.Geohash <= r.End {
			out = append(out, o)
		}
	}
	return out, nil
}

// ListActiveTransporters returns every active transporter.
func (s *Store) ListActiveTransporters(context.Context) ([]domain.Transporter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault("ListActiveTransporters"); err != nil {
		return nil, err
	}
	var out []domain.Transporter
	for _, t := range s.st.transporters {
		if t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}
