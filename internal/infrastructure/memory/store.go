package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store - леджер в памяти. Контракты те же, что у postgres-репозиториев:
// проводка и кэш баланса меняются атомарно, операции по одному участнику
// сериализованы, по разным - идут параллельно
type Store struct {
	mu        sync.Mutex
	memberMu  map[string]*sync.Mutex
	members   map[string]*domain.Member
	entries   map[string][]*domain.LedgerEntry
	byTxRef   map[string]*domain.LedgerEntry
	requests  map[string]*domain.WithdrawalRequest
	requestMu sync.Mutex
}

func NewStore() *Store {
	return &Store{
		memberMu: make(map[string]*sync.Mutex),
		members:  make(map[string]*domain.Member),
		entries:  make(map[string][]*domain.LedgerEntry),
		byTxRef:  make(map[string]*domain.LedgerEntry),
		requests: make(map[string]*domain.WithdrawalRequest),
	}
}

// AddMember регистрирует участника (вне ядра - для тестов и бутстрапа)
func (s *Store) AddMember(member *domain.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *member
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now()
	}
	s.members[member.ID] = &clone
}

// CreateMember - регистрация через админку: повтор ID и несуществующий
// спонсор отклоняются
func (s *Store) CreateMember(member *domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if _, exists := s.members[member.ID]; exists {
		return domain.ErrMemberAlreadyExists
	}
	if member.SponsorID != "" {
		if _, ok := s.members[member.SponsorID]; !ok {
			return domain.ErrUnknownMember
		}
	}

	now := time.Now()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
		member.UpdatedAt = now
	}
	clone := *member
	s.members[member.ID] = &clone
	return nil
}

func (s *Store) lockOf(memberID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.memberMu[memberID]
	if !ok {
		lock = &sync.Mutex{}
		s.memberMu[memberID] = lock
	}
	return lock
}

// lockMembers берет замки в отсортированном порядке, иначе взаимная
// блокировка при пересекающихся планах пополнения
func (s *Store) lockMembers(memberIDs []string) func() {
	unique := make(map[string]bool)
	ids := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if !unique[id] {
			unique[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	locks := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		lock := s.lockOf(id)
		lock.Lock()
		locks = append(locks, lock)
	}
	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}

// getMember отдает копию: живой указатель за пределами критической секции
// читался бы одновременно с записью баланса в applyOp
func (s *Store) getMember(memberID string) (*domain.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	member, ok := s.members[memberID]
	if !ok {
		return nil, false
	}
	clone := *member
	return &clone, true
}

// validateOp проверяет проводку до применения: после валидации apply
// уже не может провалиться - так обеспечивается атомарность планов
func (s *Store) validateOp(op domain.LedgerOp) error {
	member, ok := s.getMember(op.MemberID)
	if !ok {
		return domain.ErrUnknownMember
	}
	if member.Balance.Add(op.Amount).IsNegative() {
		return domain.ErrInsufficientFunds
	}
	if op.ExternalTxRef != "" && op.Amount.IsPositive() {
		s.mu.Lock()
		_, seen := s.byTxRef[op.ExternalTxRef]
		s.mu.Unlock()
		if seen {
			return domain.ErrDuplicateTransaction
		}
	}
	return nil
}

func (s *Store) applyOp(op domain.LedgerOp) *domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	member := s.members[op.MemberID]
	member.Balance = member.Balance.Add(op.Amount)
	member.UpdatedAt = time.Now()

	entry := &domain.LedgerEntry{
		ID:               uuid.New().String(),
		MemberID:         op.MemberID,
		Amount:           op.Amount,
		Kind:             op.Kind,
		RelatedRequestID: op.RelatedRequestID,
		ExternalTxRef:    op.ExternalTxRef,
		CreatedAt:        time.Now(),
	}
	s.entries[op.MemberID] = append(s.entries[op.MemberID], entry)
	if op.ExternalTxRef != "" {
		s.byTxRef[op.ExternalTxRef] = entry
	}
	return entry
}

func (s *Store) GetMemberByID(memberID string) (*domain.Member, error) {
	member, ok := s.getMember(memberID)
	if !ok {
		return nil, domain.ErrUnknownMember
	}
	return member, nil
}

func (s *Store) GetBalance(memberID string) (decimal.Decimal, error) {
	member, ok := s.getMember(memberID)
	if !ok {
		return decimal.Zero, domain.ErrUnknownMember
	}
	return member.Balance, nil
}

func (s *Store) Credit(op domain.LedgerOp) (*domain.LedgerEntry, error) {
	if !op.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	unlock := s.lockMembers([]string{op.MemberID})
	defer unlock()

	if err := s.validateOp(op); err != nil {
		return nil, err
	}
	return s.applyOp(op), nil
}

func (s *Store) Debit(op domain.LedgerOp) (*domain.LedgerEntry, error) {
	if !op.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	op.Amount = op.Amount.Neg()

	unlock := s.lockMembers([]string{op.MemberID})
	defer unlock()

	if err := s.validateOp(op); err != nil {
		return nil, err
	}
	return s.applyOp(op), nil
}

func (s *Store) PostFunding(plan *domain.FundingPlan) ([]*domain.LedgerEntry, error) {
	memberIDs := []string{plan.Recipient.MemberID}
	for _, op := range plan.Commissions {
		memberIDs = append(memberIDs, op.MemberID)
	}

	unlock := s.lockMembers(memberIDs)
	defer unlock()

	// Сначала валидация всего плана, потом применение: частичное
	// состояние не наблюдаемо даже при сбое на комиссиях
	if err := s.validateOp(plan.Recipient); err != nil {
		return nil, err
	}
	for _, op := range plan.Commissions {
		if err := s.validateOp(op); err != nil {
			return nil, err
		}
	}

	entries := make([]*domain.LedgerEntry, 0, 1+len(plan.Commissions))
	entries = append(entries, s.applyOp(plan.Recipient))
	for _, op := range plan.Commissions {
		entries = append(entries, s.applyOp(op))
	}
	return entries, nil
}

func (s *Store) FindEntryByExternalTxRef(txRef string) (*domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.byTxRef[txRef]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	clone := *entry
	return &clone, nil
}

func (s *Store) GetEntriesByMemberID(memberID string, page, limit int64) ([]*domain.LedgerEntry, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.entries[memberID]
	total := int64(len(all))
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	if offset >= total {
		return []*domain.LedgerEntry{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	result := make([]*domain.LedgerEntry, 0, end-offset)
	for _, entry := range all[offset:end] {
		clone := *entry
		result = append(result, &clone)
	}
	return result, total, nil
}
