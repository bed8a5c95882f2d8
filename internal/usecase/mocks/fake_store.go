package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/moneytransfer/internal/domain"
	"github.com/iho/moneytransfer/internal/usecase"
)

// Errors mirroring what the Postgres store reports for the same situations.
var (
	ErrTxClosed           = errors.New("tx is closed")
	ErrForeignKeyViolated = errors.New("foreign key violation")
	ErrCheckViolated      = errors.New("check constraint violation")
)

type fakeState struct {
	senders   map[string]domain.SenderAccount
	receivers map[string]domain.ReceiverAccount
	records   []domain.TransactionRecord
	nextID    int64
}

func (s *fakeState) clone() *fakeState {
	c := &fakeState{
		senders:   make(map[string]domain.SenderAccount, len(s.senders)),
		receivers: make(map[string]domain.ReceiverAccount, len(s.receivers)),
		records:   make([]domain.TransactionRecord, len(s.records)),
		nextID:    s.nextID,
	}

	for k, v := range s.senders {
		c.senders[k] = v
	}

	for k, v := range s.receivers {
		c.receivers[k] = v
	}

	copy(c.records, s.records)

	return c
}

// FakeStore is an in-memory store implementing the usecase repositories and
// TransactionManager. Transactions are fully serialized: Begin blocks until
// the previous transaction commits or rolls back, and works on a private copy
// of the state that replaces the committed state on Commit.
//
// The hooks, when set, inject failures. They must be set before the store is
// used concurrently.
type FakeStore struct {
	sem   chan struct{}
	mu    sync.RWMutex
	state *fakeState

	BeginHook  func() error
	AppendHook func(rec *domain.TransactionRecord) error
	CommitHook func() error
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		sem: make(chan struct{}, 1),
		state: &fakeState{
			senders:   map[string]domain.SenderAccount{},
			receivers: map[string]domain.ReceiverAccount{},
		},
	}
}

// Begin starts a transaction, waiting for the current one to finish or ctx to end.
func (s *FakeStore) Begin(ctx context.Context) (usecase.Transaction, error) {
	if s.BeginHook != nil {
		if err := s.BeginHook(); err != nil {
			return nil, err
		}
	}

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.RLock()
	st := s.state.clone()
	s.mu.RUnlock()

	return &FakeTx{store: s, state: st}, nil
}

// PutSender stores a sender directly, outside any transaction.
func (s *FakeStore) PutSender(a domain.SenderAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.senders[a.ID] = a
}

// PutReceiver stores a receiver directly, outside any transaction.
func (s *FakeStore) PutReceiver(a domain.ReceiverAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.receivers[a.ID] = a
}

// Sender returns the committed sender.
func (s *FakeStore) Sender(id string) (domain.SenderAccount, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.state.senders[id]

	return a, ok
}

// Receiver returns the committed receiver.
func (s *FakeStore) Receiver(id string) (domain.ReceiverAccount, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.state.receivers[id]

	return a, ok
}

// Records returns a copy of the committed transaction log in id order.
func (s *FakeStore) Records() []domain.TransactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TransactionRecord, len(s.state.records))
	copy(out, s.state.records)

	return out
}

// Senders returns a SenderRepository backed by the store.
func (s *FakeStore) Senders() usecase.SenderRepository { return fakeSenders{store: s} }

// Receivers returns a ReceiverRepository backed by the store.
func (s *FakeStore) Receivers() usecase.ReceiverRepository { return fakeReceivers{store: s} }

// Transactions returns a TransactionRepository backed by the store.
func (s *FakeStore) Transactions() usecase.TransactionRepository { return fakeTransactions{store: s} }

func (s *FakeStore) committed() *fakeState {
	return s.state
}

// FakeTx is a FakeStore transaction.
type FakeTx struct {
	store *FakeStore
	state *fakeState
	mu    sync.Mutex
	done  bool
}

// Commit publishes the transaction's state.
func (t *FakeTx) Commit(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxClosed
	}

	t.done = true
	defer t.release()

	if t.store.CommitHook != nil {
		if err := t.store.CommitHook(); err != nil {
			return err
		}
	}

	t.store.mu.Lock()
	t.store.state = t.state
	t.store.mu.Unlock()

	return nil
}

// Rollback discards the transaction's state. It is a no-op after Commit.
func (t *FakeTx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}

	t.done = true
	t.release()

	return nil
}

func (t *FakeTx) release() {
	<-t.store.sem
}

func stateOf(tx usecase.Transaction) (*fakeState, error) {
	ft, ok := tx.(*FakeTx)
	if !ok {
		return nil, fmt.Errorf("unexpected transaction type %T", tx)
	}

	if ft.done {
		return nil, ErrTxClosed
	}

	return ft.state, nil
}

type fakeSenders struct{ store *FakeStore }

func (r fakeSenders) GetByID(_ context.Context, id string) (*domain.SenderAccount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.committed().senders[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return &a, nil
}

func (r fakeSenders) GetByIDForUpdate(_ context.Context, tx usecase.Transaction, id string) (*domain.SenderAccount, error) {
	st, err := stateOf(tx)
	if err != nil {
		return nil, err
	}

	a, ok := st.senders[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return &a, nil
}

func (r fakeSenders) UpdateBalance(_ context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	st, err := stateOf(tx)
	if err != nil {
		return err
	}

	a, ok := st.senders[id]
	if !ok {
		return nil
	}

	if balance.IsNegative() {
		return ErrCheckViolated
	}

	a.Balance = balance
	a.UpdatedAt = updatedAt
	st.senders[id] = a

	return nil
}

func (r fakeSenders) Upsert(_ context.Context, tx usecase.Transaction, account *domain.SenderAccount) error {
	st, err := stateOf(tx)
	if err != nil {
		return err
	}

	if existing, ok := st.senders[account.ID]; ok {
		account.CreatedAt = existing.CreatedAt
	}

	st.senders[account.ID] = *account

	return nil
}

func (r fakeSenders) List(_ context.Context, limit, offset int) ([]*domain.SenderAccount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := sortedKeys(r.store.committed().senders)
	out := make([]*domain.SenderAccount, 0, len(ids))

	for _, id := range page(ids, limit, offset) {
		a := r.store.committed().senders[id]
		out = append(out, &a)
	}

	return out, nil
}

type fakeReceivers struct{ store *FakeStore }

func (r fakeReceivers) GetByID(_ context.Context, id string) (*domain.ReceiverAccount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.committed().receivers[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return &a, nil
}

func (r fakeReceivers) GetByIDForUpdate(_ context.Context, tx usecase.Transaction, id string) (*domain.ReceiverAccount, error) {
	st, err := stateOf(tx)
	if err != nil {
		return nil, err
	}

	a, ok := st.receivers[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return &a, nil
}

func (r fakeReceivers) UpdateDaily(_ context.Context, tx usecase.Transaction, id string, dailyReceived decimal.Decimal, lastResetDate, updatedAt time.Time) error {
	st, err := stateOf(tx)
	if err != nil {
		return err
	}

	a, ok := st.receivers[id]
	if !ok {
		return nil
	}

	if dailyReceived.IsNegative() {
		return ErrCheckViolated
	}

	a.DailyReceived = dailyReceived
	a.LastResetDate = domain.DateOf(lastResetDate)
	a.UpdatedAt = updatedAt
	st.receivers[id] = a

	return nil
}

func (r fakeReceivers) Upsert(_ context.Context, tx usecase.Transaction, account *domain.ReceiverAccount) error {
	st, err := stateOf(tx)
	if err != nil {
		return err
	}

	if existing, ok := st.receivers[account.ID]; ok {
		account.CreatedAt = existing.CreatedAt
	}

	st.receivers[account.ID] = *account

	return nil
}

func (r fakeReceivers) List(_ context.Context, limit, offset int) ([]*domain.ReceiverAccount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := sortedKeys(r.store.committed().receivers)
	out := make([]*domain.ReceiverAccount, 0, len(ids))

	for _, id := range page(ids, limit, offset) {
		a := r.store.committed().receivers[id]
		out = append(out, &a)
	}

	return out, nil
}

type fakeTransactions struct{ store *FakeStore }

func (r fakeTransactions) Append(_ context.Context, tx usecase.Transaction, rec *domain.TransactionRecord) (int64, error) {
	st, err := stateOf(tx)
	if err != nil {
		return 0, err
	}

	if r.store.AppendHook != nil {
		if err := r.store.AppendHook(rec); err != nil {
			return 0, err
		}
	}

	if _, ok := st.senders[rec.SenderID]; !ok {
		return 0, fmt.Errorf("%w: sender %s", ErrForeignKeyViolated, rec.SenderID)
	}

	if _, ok := st.receivers[rec.ReceiverID]; !ok {
		return 0, fmt.Errorf("%w: receiver %s", ErrForeignKeyViolated, rec.ReceiverID)
	}

	if !rec.Amount.IsPositive() {
		return 0, ErrCheckViolated
	}

	st.nextID++
	stored := *rec
	stored.ID = st.nextID
	st.records = append(st.records, stored)

	return stored.ID, nil
}

func (r fakeTransactions) GetByID(_ context.Context, id int64) (*domain.TransactionRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rec := range r.store.committed().records {
		if rec.ID == id {
			return &rec, nil
		}
	}

	return nil, domain.ErrTransactionNotFound
}

func (r fakeTransactions) Search(_ context.Context, filter domain.TransactionFilter) ([]*domain.TransactionRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*domain.TransactionRecord

	for _, rec := range r.store.committed().records {
		if filter.SenderID != "" && rec.SenderID != filter.SenderID {
			continue
		}

		if filter.ReceiverID != "" && rec.ReceiverID != filter.ReceiverID {
			continue
		}

		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}

		if filter.Since != nil && rec.CreatedAt.Before(*filter.Since) {
			continue
		}

		if filter.Until != nil && !rec.CreatedAt.Before(*filter.Until) {
			continue
		}

		rec := rec
		out = append(out, &rec)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}

		return out[i].ID > out[j].ID
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

func (r fakeTransactions) Summarize(_ context.Context, from, to time.Time) (int64, decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64

	total := decimal.Zero

	for _, rec := range r.store.committed().records {
		if rec.Status != domain.StatusSuccess {
			continue
		}

		if rec.CreatedAt.Before(from) || !rec.CreatedAt.Before(to) {
			continue
		}

		count++
		total = total.Add(rec.Amount)
	}

	return count, total, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func page(ids []string, limit, offset int) []string {
	if offset >= len(ids) {
		return nil
	}

	ids = ids[offset:]
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	return ids
}
