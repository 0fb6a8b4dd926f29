//go:build unit

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"crs-booking-engine/internal/domain/booking"
	"crs-booking-engine/internal/domain/session"
	"crs-booking-engine/internal/infra"
	"crs-booking-engine/internal/infra/db"
	"crs-booking-engine/internal/pkg/errs"
	"crs-booking-engine/internal/usecase/readmodel"
)

// In-memory repository fakes. They ignore the transaction handle; atomicity
// is exercised by the container-backed tests, not here.

// fakePool hands out no-op transactions so the use cases' transactional
// sections run against the in-memory fakes.
type fakePool struct{}

func (fakePool) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (fakePool) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, pgx.ErrNoRows }
func (fakePool) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (fakePool) Begin(context.Context) (pgx.Tx, error)                   { return fakeTx{}, nil }

type fakeTx struct{}

func (fakeTx) Begin(context.Context) (pgx.Tx, error) { return fakeTx{}, nil }
func (fakeTx) Commit(context.Context) error          { return nil }
func (fakeTx) Rollback(context.Context) error        { return pgx.ErrTxClosed }
func (fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (fakeTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (fakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, pgx.ErrNoRows }
func (fakeTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (fakeTx) Conn() *pgx.Conn                                         { return nil }

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session.Session
	saveErr  error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*session.Session)}
}

func (f *fakeSessionRepo) Create(_ context.Context, _ db.DBTX, s *session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.ID()] = s
	return nil
}

func (f *fakeSessionRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, infra.WrapRepoErr("session not found", nil, infra.KindNotFound)
	}
	return s, nil
}

func (f *fakeSessionRepo) Save(_ context.Context, _ db.DBTX, s *session.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.ID()] = s
	return nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

type fakeRoomTypeRepo struct {
	byID map[uuid.UUID]readmodel.RoomTypeSnapshot
}

func newFakeRoomTypeRepo(snapshots ...readmodel.RoomTypeSnapshot) *fakeRoomTypeRepo {
	f := &fakeRoomTypeRepo{byID: make(map[uuid.UUID]readmodel.RoomTypeSnapshot)}
	for _, snapshot := range snapshots {
		f.byID[snapshot.ID] = snapshot
	}
	return f
}

func (f *fakeRoomTypeRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (readmodel.RoomTypeSnapshot, error) {
	snapshot, ok := f.byID[id]
	if !ok {
		return readmodel.RoomTypeSnapshot{}, infra.WrapRepoErr("room type not found", nil, infra.KindNotFound)
	}
	return snapshot, nil
}

func (f *fakeRoomTypeRepo) FindAll(_ context.Context, _ db.DBTX) ([]readmodel.RoomTypeSnapshot, error) {
	snapshots := make([]readmodel.RoomTypeSnapshot, 0, len(f.byID))
	for _, snapshot := range f.byID {
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

type fakeInventoryRepo struct {
	heldByOthers map[uuid.UUID]int
	holds        []readmodel.InventoryHold
	released     []uuid.UUID
	purged       int
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{heldByOthers: make(map[uuid.UUID]int)}
}

func (f *fakeInventoryRepo) PurgeExpired(_ context.Context, _ db.DBTX, _ time.Time) (int64, error) {
	f.purged++
	return 0, nil
}

func (f *fakeInventoryRepo) Hold(_ context.Context, _ db.DBTX, hold readmodel.InventoryHold, _, _ time.Time) error {
	f.holds = append(f.holds, hold)
	return nil
}

func (f *fakeInventoryRepo) CountHeldByOthers(_ context.Context, _ db.DBTX, roomTypeID, _ uuid.UUID, _, _, _ time.Time) (int, error) {
	return f.heldByOthers[roomTypeID], nil
}

func (f *fakeInventoryRepo) ReleaseForSession(_ context.Context, _ db.DBTX, sessionID uuid.UUID) error {
	f.released = append(f.released, sessionID)
	return nil
}

// fakeBookingRepo stores real booking entities so reload-after-transition
// paths see the updated row. Status updates mirror the row's optimistic
// version check.
type fakeBookingRepo struct {
	mu            sync.Mutex
	store         map[uuid.UUID]*booking.Booking
	statuses      map[uuid.UUID]booking.Status
	cancelReasons map[uuid.UUID]*string
	created       int
	createErr     error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		store:         make(map[uuid.UUID]*booking.Booking),
		statuses:      make(map[uuid.UUID]booking.Status),
		cancelReasons: make(map[uuid.UUID]*string),
	}
}

func (f *fakeBookingRepo) Create(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.store[b.ID()] = b
	f.created++
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.store[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return b, nil
}

func (f *fakeBookingRepo) FindByNumber(_ context.Context, _ db.DBTX, number string) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.store {
		if b.BookingNumber() == number {
			return b, nil
		}
	}
	return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
}

func (f *fakeBookingRepo) FindByIDForUpdate(ctx context.Context, dbx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	return f.FindByID(ctx, dbx, id)
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, to booking.Status, expectedVersion int32, cancelReason *string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.store[id]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	if b.Version() != expectedVersion {
		return infra.WrapRepoErr("booking version conflict", nil, infra.KindVersionConflict)
	}
	reason := b.CancelReason()
	if cancelReason != nil {
		reason = cancelReason
	}
	f.store[id] = booking.ReconstructBooking(
		b.ID(), b.BookingNumber(), to, b.Version()+1, b.Guest(),
		b.CheckIn(), b.CheckOut(), b.Adults(), b.Children(),
		b.SubtotalCents(), b.TaxCents(), b.TotalCents(),
		b.Items(), b.AddOns(),
		b.ConfirmationNumber(), b.ExternalReservationID(), reason,
		b.ConfirmedAt(), b.CancelledAt(), b.CreatedAt(), now,
	)
	f.statuses[id] = to
	f.cancelReasons[id] = cancelReason
	return nil
}

func (f *fakeBookingRepo) SetConfirmation(_ context.Context, _ db.DBTX, id uuid.UUID, confirmationNumber, externalReservationID string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.store[id]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	f.store[id] = booking.ReconstructBooking(
		b.ID(), b.BookingNumber(), b.Status(), b.Version(), b.Guest(),
		b.CheckIn(), b.CheckOut(), b.Adults(), b.Children(),
		b.SubtotalCents(), b.TaxCents(), b.TotalCents(),
		b.Items(), b.AddOns(),
		&confirmationNumber, &externalReservationID, b.CancelReason(),
		&now, b.CancelledAt(), b.CreatedAt(), now,
	)
	return nil
}

type fakeIdempotencyRepo struct {
	mu         sync.Mutex
	records    map[string]*readmodel.IdempotencyRecord
	releaseErr error
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{records: make(map[string]*readmodel.IdempotencyRecord)}
}

func (f *fakeIdempotencyRepo) TryLock(_ context.Context, _ db.DBTX, key, method, path string, ttl time.Duration, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.records[key]; ok {
		// A processing claim whose lease lapsed may be taken over.
		if rec.Status == readmodel.IdempotencyProcessing && !rec.ExpiresAt.After(now) {
			rec.LockedAt = now
			rec.ExpiresAt = now.Add(ttl)
			return true, nil
		}
		return false, nil
	}
	f.records[key] = &readmodel.IdempotencyRecord{
		Key:       key,
		Method:    method,
		Path:      path,
		Status:    readmodel.IdempotencyProcessing,
		LockedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	return true, nil
}

func (f *fakeIdempotencyRepo) Get(_ context.Context, _ db.DBTX, key string) (*readmodel.IdempotencyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[key]
	if !ok {
		return nil, infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeIdempotencyRepo) Complete(_ context.Context, _ db.DBTX, key string, statusCode int, response []byte, bookingID *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[key]
	if !ok {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	rec.Status = readmodel.IdempotencyCompleted
	rec.StatusCode = &statusCode
	rec.Response = response
	rec.ResultBookingID = bookingID
	return nil
}

func (f *fakeIdempotencyRepo) Release(_ context.Context, _ db.DBTX, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.releaseErr != nil {
		return f.releaseErr
	}
	delete(f.records, key)
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*readmodel.PaymentRecord
	pending  int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*readmodel.PaymentRecord)}
}

func (f *fakePaymentRepo) CreatePending(_ context.Context, _ db.DBTX, bookingID uuid.UUID, method string, amountCents int64, currency string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments[bookingID] = &readmodel.PaymentRecord{
		BookingID:   bookingID,
		Method:      method,
		AmountCents: amountCents,
		Currency:    currency,
		Status:      "pending",
	}
	f.pending++
	return nil
}

func (f *fakePaymentRepo) FindByBooking(_ context.Context, _ db.DBTX, bookingID uuid.UUID) (readmodel.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.payments[bookingID]
	if !ok {
		return readmodel.PaymentRecord{}, infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	return *rec, nil
}

func (f *fakePaymentRepo) Settle(_ context.Context, _ db.DBTX, bookingID uuid.UUID, status, reference string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.payments[bookingID]
	if !ok {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	rec.Status = status
	rec.Reference = reference
	return nil
}

type processingClaim struct {
	owner     string
	expiresAt time.Time
}

type fakeProcessingLockRepo struct {
	mu    sync.Mutex
	held  map[uuid.UUID]processingClaim
	taken int
}

func newFakeProcessingLockRepo() *fakeProcessingLockRepo {
	return &fakeProcessingLockRepo{held: make(map[uuid.UUID]processingClaim)}
}

func (f *fakeProcessingLockRepo) Acquire(_ context.Context, _ db.DBTX, bookingID uuid.UUID, owner string, ttl time.Duration, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if claim, ok := f.held[bookingID]; ok && claim.expiresAt.After(now) {
		return errs.ErrProcessingLockHeld
	}
	f.held[bookingID] = processingClaim{owner: owner, expiresAt: now.Add(ttl)}
	f.taken++
	return nil
}

func (f *fakeProcessingLockRepo) Release(_ context.Context, _ db.DBTX, bookingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, bookingID)
	return nil
}

type enqueuedNotification struct {
	Kind    string
	Payload any
}

type fakeNotificationRepo struct {
	mu       sync.Mutex
	enqueued []enqueuedNotification
}

func newFakeNotificationRepo() *fakeNotificationRepo { return &fakeNotificationRepo{} }

func (f *fakeNotificationRepo) Enqueue(_ context.Context, _ db.DBTX, kind string, payload any, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, enqueuedNotification{Kind: kind, Payload: payload})
	return nil
}

type auditRecord struct {
	From      booking.Status
	To        booking.Status
	Actor     string
	Succeeded bool
}

type fakeAuditRepo struct {
	mu          sync.Mutex
	history     []readmodel.HistoryEntry
	transitions []auditRecord
}

func newFakeAuditRepo() *fakeAuditRepo { return &fakeAuditRepo{} }

func (f *fakeAuditRepo) RecordHistory(_ context.Context, _ db.DBTX, _ uuid.UUID, from, to booking.Status, note string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, readmodel.HistoryEntry{
		From:      string(from),
		To:        string(to),
		Note:      note,
		CreatedAt: now,
	})
	return nil
}

func (f *fakeAuditRepo) RecordTransition(_ context.Context, _ db.DBTX, _ uuid.UUID, from, to booking.Status, _, actor string, _ map[string]any, succeeded bool, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions = append(f.transitions, auditRecord{From: from, To: to, Actor: actor, Succeeded: succeeded})
	return nil
}

func (f *fakeAuditRepo) ListHistory(_ context.Context, _ db.DBTX, _ uuid.UUID) ([]readmodel.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]readmodel.HistoryEntry(nil), f.history...), nil
}
