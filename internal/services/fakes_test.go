package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eventmarket/internal/domain"
)

// memStore backs the fake repositories with shared in-memory state so the
// participation and reconciliation flows can be exercised end to end.
type memStore struct {
	mu           sync.Mutex
	nextID       int
	events       map[string]*domain.Event
	participants map[string]*domain.Participant
	payments     map[string]*domain.Payment
}

func newMemStore() *memStore {
	return &memStore{
		events:       make(map[string]*domain.Event),
		participants: make(map[string]*domain.Participant),
		payments:     make(map[string]*domain.Payment),
	}
}

func (s *memStore) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *memStore) addEvent(e *domain.Event) *domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = s.id("ev")
	}
	if e.Status == "" {
		e.Status = domain.EventOpen
	}
	s.events[e.ID] = e
	return e
}

func (s *memStore) participantFor(eventID, attendeeID string) *domain.Participant {
	for _, p := range s.participants {
		if p.EventID == eventID && p.AttendeeID == attendeeID {
			return p
		}
	}
	return nil
}

func (s *memStore) participantForPayment(paymentID string) *domain.Participant {
	for _, p := range s.participants {
		if p.PaymentID != nil && *p.PaymentID == paymentID {
			return p
		}
	}
	return nil
}

type fakeEventRepo struct {
	store *memStore
	err   error
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.store.addEvent(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	e, ok := f.store.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (f *fakeEventRepo) ExistsDuplicate(ctx context.Context, title, hostID, eventType, location string) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, e := range f.store.events {
		if e.Title == title && e.HostID == hostID && e.Type == eventType && e.Location == location {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter, opts domain.ListOptions) ([]*domain.Event, int, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]*domain.Event, 0, len(f.store.events))
	for _, e := range f.store.events {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	e, ok := f.store.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Status != nil {
		e.Status = *upd.Status
	}
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.MaxParticipants != nil {
		e.MaxParticipants = upd.MaxParticipants
	}
	return e, nil
}

type fakeParticipantRepo struct {
	store *memStore
}

func (f *fakeParticipantRepo) GetByEventAndAttendee(ctx context.Context, eventID, attendeeID string) (*domain.Participant, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if p := f.store.participantFor(eventID, attendeeID); p != nil {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeParticipantRepo) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	p, ok := f.store.participants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeParticipantRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]*domain.Participant, 0)
	for _, p := range f.store.participants {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) ListPaidByAttendee(ctx context.Context, attendeeID string) ([]*domain.PaidParticipation, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]*domain.PaidParticipation, 0)
	for _, p := range f.store.participants {
		if p.AttendeeID == attendeeID && p.Paid {
			out = append(out, &domain.PaidParticipation{
				Participant: p,
				Event:       f.store.events[p.EventID],
			})
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) CountActive(ctx context.Context, eventID string) (int, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.countActiveLocked(eventID), nil
}

func (f *fakeParticipantRepo) HasAcceptedForHost(ctx context.Context, attendeeID, hostID string) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, p := range f.store.participants {
		if p.AttendeeID == attendeeID && p.Status == domain.JoinAccepted {
			if e, ok := f.store.events[p.EventID]; ok && e.HostID == hostID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeParticipantRepo) Delete(ctx context.Context, id string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if _, ok := f.store.participants[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.store.participants, id)
	return nil
}

func (s *memStore) countActiveLocked(eventID string) int {
	n := 0
	for _, p := range s.participants {
		if p.EventID == eventID && (p.Status == domain.JoinPending || p.Status == domain.JoinAccepted) {
			n++
		}
	}
	return n
}

type fakeLedger struct {
	store *memStore
}

func (f *fakeLedger) RecordJoin(ctx context.Context, eventID, attendeeID string) (*domain.JoinRecord, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	e, ok := f.store.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if e.Status != domain.EventOpen && e.Status != domain.EventFull {
		return nil, domain.ErrInvalidState
	}

	existing := f.store.participantFor(eventID, attendeeID)
	if existing != nil {
		switch existing.Status {
		case domain.JoinAccepted:
			return nil, domain.ErrConflict
		case domain.JoinPending:
			if existing.PaymentID == nil {
				return nil, domain.ErrConflict
			}
			payment := f.store.payments[*existing.PaymentID]
			if payment.CheckoutSessionID != nil {
				return nil, domain.ErrConflict
			}
			return &domain.JoinRecord{Participant: existing, Payment: payment, Retry: true}, nil
		}
	}

	if e.Status == domain.EventFull {
		return nil, domain.ErrCapacityExceeded
	}
	if e.MaxParticipants != nil {
		active := f.store.countActiveLocked(eventID)
		if active >= *e.MaxParticipants {
			return nil, domain.ErrCapacityExceeded
		}
		if active+1 >= *e.MaxParticipants {
			e.Status = domain.EventFull
		}
	}

	now := time.Now().UTC()
	var payment *domain.Payment
	participant := &domain.Participant{
		EventID:    eventID,
		AttendeeID: attendeeID,
		Status:     domain.JoinAccepted,
		Paid:       true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if e.JoiningFee > 0 {
		payment = &domain.Payment{
			ID:        f.store.id("pay"),
			EventID:   eventID,
			PayerID:   attendeeID,
			Amount:    e.JoiningFee,
			Currency:  e.Currency,
			Status:    domain.PaymentPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		f.store.payments[payment.ID] = payment
		participant.Status = domain.JoinPending
		participant.Paid = false
		participant.PaymentID = &payment.ID
	}
	if existing != nil {
		participant.ID = existing.ID
	} else {
		participant.ID = f.store.id("pt")
	}
	f.store.participants[participant.ID] = participant

	return &domain.JoinRecord{Participant: participant, Payment: payment}, nil
}

func (f *fakeLedger) SetPaymentSession(ctx context.Context, paymentID, sessionID string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	p, ok := f.store.payments[paymentID]
	if !ok {
		return domain.ErrNotFound
	}
	p.CheckoutSessionID = &sessionID
	return nil
}

func (f *fakeLedger) SettlePayment(ctx context.Context, paymentID, gatewayTxnID, participantID string) (*domain.Settlement, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	p, ok := f.store.payments[paymentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	participant := f.store.participants[participantID]
	if participant == nil {
		participant = f.store.participantForPayment(paymentID)
	}
	if p.Status.Terminal() {
		return &domain.Settlement{Payment: p, Participant: participant, Applied: false}, nil
	}
	p.Status = domain.PaymentSuccess
	p.GatewayTxnID = &gatewayTxnID
	if participant != nil {
		participant.Status = domain.JoinAccepted
		participant.Paid = true
	}
	return &domain.Settlement{Payment: p, Participant: participant, Applied: true}, nil
}

func (f *fakeLedger) ExpirePayment(ctx context.Context, paymentID string) (*domain.Settlement, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	p, ok := f.store.payments[paymentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	participant := f.store.participantForPayment(paymentID)
	if p.Status.Terminal() {
		return &domain.Settlement{Payment: p, Participant: participant, Applied: false}, nil
	}
	p.Status = domain.PaymentFailed
	if participant != nil {
		participant.Status = domain.JoinRejected
		participant.Paid = false
	}
	if e, ok := f.store.events[p.EventID]; ok && e.Status == domain.EventFull {
		e.Status = domain.EventOpen
	}
	return &domain.Settlement{Payment: p, Participant: participant, Applied: true}, nil
}

func (f *fakeLedger) GetPaymentByID(ctx context.Context, id string) (*domain.Payment, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	p, ok := f.store.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeLedger) GetPaymentBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, p := range f.store.payments {
		if p.CheckoutSessionID != nil && *p.CheckoutSessionID == sessionID {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeLedger) GetPaymentByGatewayTxnID(ctx context.Context, txnID string) (*domain.Payment, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, p := range f.store.payments {
		if p.GatewayTxnID != nil && *p.GatewayTxnID == txnID {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeLedger) ListPaymentsByEventID(ctx context.Context, eventID string) ([]*domain.Payment, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]*domain.Payment, 0)
	for _, p := range f.store.payments {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeLedger) DeleteEventCascade(ctx context.Context, eventID string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if _, ok := f.store.events[eventID]; !ok {
		return domain.ErrNotFound
	}
	for id, p := range f.store.participants {
		if p.EventID == eventID {
			delete(f.store.participants, id)
		}
	}
	for id, p := range f.store.payments {
		if p.EventID == eventID {
			delete(f.store.payments, id)
		}
	}
	delete(f.store.events, eventID)
	return nil
}

type fakeGateway struct {
	mu        sync.Mutex
	createErr error
	paid      bool
	txnID     string
	requests  []domain.CheckoutRequest
}

func (f *fakeGateway) CreateSession(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.requests = append(f.requests, req)
	return &domain.CheckoutSession{
		ID:  "cs_" + req.PaymentID,
		URL: "https://checkout.example/cs_" + req.PaymentID,
	}, nil
}

func (f *fakeGateway) ParseWebhook(payload []byte, signature string) (*domain.GatewayEvent, error) {
	return nil, domain.ErrGateway
}

func (f *fakeGateway) SessionStatus(ctx context.Context, sessionID string) (*domain.SessionStatus, error) {
	return &domain.SessionStatus{Paid: f.paid, TransactionID: f.txnID}, nil
}

type fakeRefunder struct {
	requested []*domain.Payment
	err       error
}

func (f *fakeRefunder) RequestRefund(ctx context.Context, payment *domain.Payment) error {
	if f.err != nil {
		return f.err
	}
	f.requested = append(f.requested, payment)
	return nil
}

type fakePersonRepo struct {
	persons  map[string]*domain.Person
	profiles map[string]*domain.Profile
}

func (f *fakePersonRepo) CreateWithProfile(ctx context.Context, p *domain.Person, profile *domain.Profile) error {
	return nil
}

func (f *fakePersonRepo) GetByEmail(ctx context.Context, email string) (*domain.Person, error) {
	for _, p := range f.persons {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePersonRepo) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	p, ok := f.persons[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakePersonRepo) GetProfile(ctx context.Context, personID string) (*domain.Profile, error) {
	pr, ok := f.profiles[personID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return pr, nil
}

func (f *fakePersonRepo) UpdateProfile(ctx context.Context, personID string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	return f.GetProfile(ctx, personID)
}

func (f *fakePersonRepo) UpdateEmail(ctx context.Context, personID, email string) error { return nil }

func (f *fakePersonRepo) UpdatePassword(ctx context.Context, personID, passwordHash string) error {
	p, ok := f.persons[personID]
	if !ok {
		return domain.ErrNotFound
	}
	p.PasswordHash = passwordHash
	return nil
}

func (f *fakePersonRepo) SetRole(ctx context.Context, personID string, role domain.Role) error {
	p, ok := f.persons[personID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Role = role
	return nil
}

func (f *fakePersonRepo) List(ctx context.Context, filter domain.PersonFilter, opts domain.ListOptions) ([]*domain.PersonWithProfile, int, error) {
	return nil, 0, nil
}

func (f *fakePersonRepo) Delete(ctx context.Context, personID string) error     { return nil }
func (f *fakePersonRepo) SoftDelete(ctx context.Context, personID string) error { return nil }

type fakeEmailService struct {
	receipts  []*domain.PaymentReceiptEmailData
	decisions []*domain.HostApplicationDecisionEmailData
	err       error
}

func (f *fakeEmailService) SendPaymentReceipt(ctx context.Context, data *domain.PaymentReceiptEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.receipts = append(f.receipts, data)
	return nil
}

func (f *fakeEmailService) SendHostApplicationDecision(ctx context.Context, data *domain.HostApplicationDecisionEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.decisions = append(f.decisions, data)
	return nil
}
