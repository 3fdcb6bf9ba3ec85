package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errBoom = errors.New("boom")

type UserRepoMock struct {
	mu        sync.Mutex
	users     map[primitive.ObjectID]*models.User
	failApply map[primitive.ObjectID]bool
	incErr    error
	err       error

	// beforeApply runs between reading wallets and writing valuations.
	beforeApply func()
}

func newUserRepoMock(users ...*models.User) *UserRepoMock {
	m := &UserRepoMock{users: map[primitive.ObjectID]*models.User{}, failApply: map[primitive.ObjectID]bool{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		m.users[u.ID] = u
	}
	return m
}

func (m *UserRepoMock) SaveUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = user
	return nil
}

func (m *UserRepoMock) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *UserRepoMock) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *UserRepoMock) GetAllUsers(_ context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (m *UserRepoMock) GetWallets(ctx context.Context) ([]*models.User, error) {
	return m.GetAllUsers(ctx)
}

func (m *UserRepoMock) ApplyValuations(_ context.Context, vals []models.WalletValuation) (*repository.BulkOutcome, error) {
	if m.beforeApply != nil {
		m.beforeApply()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	outcome := &repository.BulkOutcome{}
	for _, v := range vals {
		if m.failApply[v.UserID] {
			outcome.Failed = append(outcome.Failed, v.UserID)
			outcome.Errors = append(outcome.Errors, errBoom)
			continue
		}
		u, ok := m.users[v.UserID]
		if !ok || u.Wallet.Crypto.CryptoBalance != v.OldCryptoBalance {
			outcome.Missed++
			continue
		}
		outcome.Matched++
		u.Wallet.Crypto.CryptoBalance = v.CryptoBalance
		u.Wallet.Balance += v.Delta
		u.Wallet.Fluctuation = v.Fluctuation
		outcome.Modified++
	}
	return outcome, nil
}

func (m *UserRepoMock) SettleProfits(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for _, u := range m.users {
		if u.Wallet.Profits == 0 {
			continue
		}
		u.Wallet.Balance += u.Wallet.Profits
		u.Wallet.Profits = 0
		n++
	}
	return n, nil
}

func (m *UserRepoMock) IncrementWallet(_ context.Context, id primitive.ObjectID, field models.BalanceField, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.incErr != nil {
		return m.incErr
	}
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	switch field {
	case models.FieldBalance:
		u.Wallet.Balance += amount
	case models.FieldProfits:
		u.Wallet.Profits += amount
	case models.FieldTotalDeposit:
		u.Wallet.TotalDeposit += amount
	case models.FieldTotalBonus:
		u.Wallet.TotalBonus += amount
	case models.FieldWithdrawn:
		u.Wallet.Withdrawn += amount
	case models.FieldReferral:
		u.Wallet.Referral += amount
	case models.FieldTopup:
		u.Wallet.Topup += amount
	default:
		return errors.New("invalid wallet field")
	}
	return nil
}

func (m *UserRepoMock) ApplyDeposit(_ context.Context, id primitive.ObjectID, amount, bonus float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Wallet.Balance += amount + bonus
	u.Wallet.TotalDeposit += amount
	u.Wallet.TotalBonus += bonus
	return nil
}

func (m *UserRepoMock) ApplyWithdrawal(_ context.Context, id primitive.ObjectID, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.Wallet.Balance < amount {
		return repository.ErrInsufficientFunds
	}
	u.Wallet.Balance -= amount
	u.Wallet.Withdrawn += amount
	return nil
}

type PriceRepoMock struct {
	prices    map[int]*models.LivePrice
	upsertErr error
	err       error
}

func newPriceRepoMock(prices ...*models.LivePrice) *PriceRepoMock {
	m := &PriceRepoMock{prices: map[int]*models.LivePrice{}}
	for _, p := range prices {
		m.prices[p.AssetID] = p
	}
	return m
}

func (m *PriceRepoMock) UpsertPrices(_ context.Context, prices []*models.LivePrice) (int64, error) {
	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	for _, p := range prices {
		m.prices[p.AssetID] = p
	}
	return int64(len(prices)), nil
}

func (m *PriceRepoMock) GetAllPrices(_ context.Context) ([]*models.LivePrice, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*models.LivePrice, 0, len(m.prices))
	for _, p := range m.prices {
		out = append(out, p)
	}
	return out, nil
}

func (m *PriceRepoMock) GetPriceByAssetID(_ context.Context, id int) (*models.LivePrice, error) {
	return m.prices[id], nil
}

type MarkerRepoMock struct {
	markers map[string]time.Time
	err     error
}

func newMarkerRepoMock() *MarkerRepoMock {
	return &MarkerRepoMock{markers: map[string]time.Time{}}
}

func (m *MarkerRepoMock) SetMarker(_ context.Context, name string, at time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.markers[name] = at
	return nil
}

func (m *MarkerRepoMock) GetMarker(_ context.Context, name string) (time.Time, bool, error) {
	if m.err != nil {
		return time.Time{}, false, m.err
	}
	at, ok := m.markers[name]
	return at, ok, nil
}

type InvestmentRepoMock struct {
	investments map[primitive.ObjectID]*models.Investment
	activations int

	// beforeWrite runs ahead of UpdateStatus and Activate.
	beforeWrite func()
}

func newInvestmentRepoMock(invs ...*models.Investment) *InvestmentRepoMock {
	m := &InvestmentRepoMock{investments: map[primitive.ObjectID]*models.Investment{}}
	for _, inv := range invs {
		if inv.ID.IsZero() {
			inv.ID = primitive.NewObjectID()
		}
		m.investments[inv.ID] = inv
	}
	return m
}

func (m *InvestmentRepoMock) SaveInvestment(_ context.Context, inv *models.Investment) error {
	inv.ID = primitive.NewObjectID()
	m.investments[inv.ID] = inv
	return nil
}

func (m *InvestmentRepoMock) GetInvestmentByID(_ context.Context, id primitive.ObjectID) (*models.Investment, error) {
	inv, ok := m.investments[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (m *InvestmentRepoMock) GetInvestments(_ context.Context, f repository.InvestmentFilter) ([]*models.Investment, error) {
	var out []*models.Investment
	for _, inv := range m.investments {
		if !f.UserID.IsZero() && inv.UserID != f.UserID {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (m *InvestmentRepoMock) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.InvestmentStatus) error {
	if m.beforeWrite != nil {
		m.beforeWrite()
	}
	inv, ok := m.investments[id]
	if !ok || inv.Status.Terminal() {
		return repository.ErrNotFound
	}
	inv.Status = status
	return nil
}

func (m *InvestmentRepoMock) Activate(_ context.Context, id primitive.ObjectID, start, expiry time.Time) (bool, error) {
	if m.beforeWrite != nil {
		m.beforeWrite()
	}
	inv, ok := m.investments[id]
	if !ok || inv.Status.Terminal() || inv.ExpiryDate != nil {
		return false, nil
	}
	m.activations++
	inv.Status = models.InvestmentActive
	inv.StartDate = &start
	inv.ExpiryDate = &expiry
	return true, nil
}

func (m *InvestmentRepoMock) ExpireDue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, inv := range m.investments {
		if inv.Status == models.InvestmentActive && inv.ExpiryDate != nil && !inv.ExpiryDate.After(now) {
			inv.Status = models.InvestmentExpired
			n++
		}
	}
	return n, nil
}

type PlanRepoMock struct {
	plans map[primitive.ObjectID]*models.Plan
}

func newPlanRepoMock(plans ...*models.Plan) *PlanRepoMock {
	m := &PlanRepoMock{plans: map[primitive.ObjectID]*models.Plan{}}
	for _, p := range plans {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		m.plans[p.ID] = p
	}
	return m
}

func (m *PlanRepoMock) SavePlan(_ context.Context, p *models.Plan) error {
	p.ID = primitive.NewObjectID()
	m.plans[p.ID] = p
	return nil
}

func (m *PlanRepoMock) GetPlanByID(_ context.Context, id primitive.ObjectID) (*models.Plan, error) {
	return m.plans[id], nil
}

func (m *PlanRepoMock) GetAllPlans(_ context.Context) ([]*models.Plan, error) {
	var out []*models.Plan
	for _, p := range m.plans {
		out = append(out, p)
	}
	return out, nil
}

type TradeRepoMock struct {
	trades map[primitive.ObjectID]*models.LiveTrade
}

func newTradeRepoMock(trades ...*models.LiveTrade) *TradeRepoMock {
	m := &TradeRepoMock{trades: map[primitive.ObjectID]*models.LiveTrade{}}
	for _, t := range trades {
		if t.ID.IsZero() {
			t.ID = primitive.NewObjectID()
		}
		m.trades[t.ID] = t
	}
	return m
}

func (m *TradeRepoMock) SaveTrade(_ context.Context, t *models.LiveTrade) error {
	t.ID = primitive.NewObjectID()
	t.CreatedAt = time.Now()
	m.trades[t.ID] = t
	return nil
}

func (m *TradeRepoMock) GetTradeByID(_ context.Context, id primitive.ObjectID) (*models.LiveTrade, error) {
	t, ok := m.trades[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *TradeRepoMock) GetTradesByUserID(_ context.Context, userID primitive.ObjectID) ([]*models.LiveTrade, error) {
	var out []*models.LiveTrade
	for _, t := range m.trades {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *TradeRepoMock) GetAllTrades(_ context.Context) ([]*models.LiveTrade, error) {
	var out []*models.LiveTrade
	for _, t := range m.trades {
		out = append(out, t)
	}
	return out, nil
}

func (m *TradeRepoMock) UpdateTradeOutcome(_ context.Context, t *models.LiveTrade) (bool, error) {
	stored, ok := m.trades[t.ID]
	if !ok || stored.ClosedAt != nil {
		return false, nil
	}
	cp := *t
	m.trades[t.ID] = &cp
	return true, nil
}

type AdminRepoMock struct {
	admins map[primitive.ObjectID]*models.AdminAccount
}

func newAdminRepoMock(admins ...*models.AdminAccount) *AdminRepoMock {
	m := &AdminRepoMock{admins: map[primitive.ObjectID]*models.AdminAccount{}}
	for _, a := range admins {
		m.admins[a.ID] = a
	}
	return m
}

func (m *AdminRepoMock) SaveAdmin(_ context.Context, a *models.AdminAccount) error {
	a.ID = primitive.NewObjectID()
	m.admins[a.ID] = a
	return nil
}

func (m *AdminRepoMock) GetAdminByID(_ context.Context, id primitive.ObjectID) (*models.AdminAccount, error) {
	return m.admins[id], nil
}

func (m *AdminRepoMock) GetAdminByUsername(_ context.Context, username string) (*models.AdminAccount, error) {
	for _, a := range m.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, nil
}

type TokenRepoMock struct {
	tokens map[string]*models.RefreshToken
}

func newTokenRepoMock() *TokenRepoMock {
	return &TokenRepoMock{tokens: map[string]*models.RefreshToken{}}
}

func (m *TokenRepoMock) SaveRefreshToken(_ context.Context, t *models.RefreshToken) error {
	m.tokens[t.Token] = t
	return nil
}

func (m *TokenRepoMock) GetRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	return m.tokens[token], nil
}

func (m *TokenRepoMock) DeleteRefreshToken(_ context.Context, token string) (bool, error) {
	_, ok := m.tokens[token]
	delete(m.tokens, token)
	return ok, nil
}

func (m *TokenRepoMock) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for k, t := range m.tokens {
		if t.ExpiryDate.Before(now) {
			delete(m.tokens, k)
			n++
		}
	}
	return n, nil
}

type TransactionRepoMock struct {
	transactions map[primitive.ObjectID]*models.Transaction
	reopened     int
}

func newTransactionRepoMock(txs ...*models.Transaction) *TransactionRepoMock {
	m := &TransactionRepoMock{transactions: map[primitive.ObjectID]*models.Transaction{}}
	for _, t := range txs {
		if t.ID.IsZero() {
			t.ID = primitive.NewObjectID()
		}
		m.transactions[t.ID] = t
	}
	return m
}

func (m *TransactionRepoMock) SaveTransaction(_ context.Context, t *models.Transaction) error {
	t.ID = primitive.NewObjectID()
	t.RequestTime = time.Now()
	m.transactions[t.ID] = t
	return nil
}

func (m *TransactionRepoMock) GetTransactionByID(_ context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	t, ok := m.transactions[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *TransactionRepoMock) GetTransactions(_ context.Context, _ repository.TransactionFilter) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for _, t := range m.transactions {
		out = append(out, t)
	}
	return out, nil
}

func (m *TransactionRepoMock) ResolvePending(_ context.Context, id primitive.ObjectID, status models.TransactionStatus, note string, at time.Time) (bool, error) {
	t, ok := m.transactions[id]
	if !ok || t.Status != models.TransactionStatusPending {
		return false, nil
	}
	t.Status = status
	t.AdminNote = note
	t.ResponseTime = &at
	return true, nil
}

func (m *TransactionRepoMock) Reopen(_ context.Context, id primitive.ObjectID, from models.TransactionStatus) error {
	t, ok := m.transactions[id]
	if ok && t.Status == from {
		t.Status = models.TransactionStatusPending
		t.ResponseTime = nil
		t.AdminNote = ""
		m.reopened++
	}
	return nil
}

type QuoteProviderMock struct {
	prices []*models.LivePrice
	err    error
	gotIDs []int
}

func (m *QuoteProviderMock) LatestQuotes(_ context.Context, ids []int) ([]*models.LivePrice, error) {
	m.gotIDs = ids
	if m.err != nil {
		return nil, m.err
	}
	return m.prices, nil
}

type BroadcasterMock struct {
	batches [][]*models.LivePrice
}

func (m *BroadcasterMock) BroadcastPrices(prices []*models.LivePrice) {
	m.batches = append(m.batches, prices)
}

type IssuerMock struct {
	n int
}

func (m *IssuerMock) IssueAdminToken(adminID string) (string, time.Time, error) {
	m.n++
	return "access-" + adminID, time.Now().Add(15 * time.Minute), nil
}

func newID() primitive.ObjectID {
	return primitive.NewObjectID()
}
