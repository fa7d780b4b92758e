package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"giftmarket-bot/internal/auth"
	"giftmarket-bot/internal/models"
	"giftmarket-bot/internal/repository"
)

const adminID int64 = 99

type testEnv struct {
	repos     *fakeRegistry
	notifier  *recordingNotifier
	balances  *BalanceService
	deposits  *DepositService
	inventory *InventoryService
	catalog   *CatalogService
}

func newTestEnv() *testEnv {
	repos := newFakeRegistry()
	notifier := newRecordingNotifier()
	guard := auth.NewGuard(adminID)
	return &testEnv{
		repos:     repos,
		notifier:  notifier,
		balances:  NewBalanceService(repos, guard, notifier),
		deposits:  NewDepositService(repos, guard, notifier),
		inventory: NewInventoryService(repos, guard, notifier),
		catalog:   NewCatalogService(repos),
	}
}

// fakeClock hands out strictly increasing timestamps so newest-first
// ordering is deterministic.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) next() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

// fakeRegistry is an in-memory repository.Registry. Atomic snapshots all
// state up front and restores it when the callback fails, mirroring a store
// transaction rollback.
type fakeRegistry struct {
	clock     *fakeClock
	users     *fakeUsers
	deposits  *fakeDeposits
	giftCards *fakeGiftCards
	orders    *fakeOrders
}

func newFakeRegistry() *fakeRegistry {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	return &fakeRegistry{
		clock:     clock,
		users:     &fakeUsers{rows: map[int64]*models.User{}},
		deposits:  &fakeDeposits{clock: clock},
		giftCards: &fakeGiftCards{clock: clock},
		orders:    &fakeOrders{clock: clock},
	}
}

func (f *fakeRegistry) Users() repository.Users         { return f.users }
func (f *fakeRegistry) Deposits() repository.Deposits   { return f.deposits }
func (f *fakeRegistry) GiftCards() repository.GiftCards { return f.giftCards }
func (f *fakeRegistry) Orders() repository.Orders       { return f.orders }

func (f *fakeRegistry) Atomic(_ context.Context, fn func(repository.Registry) error) error {
	users := f.users.snapshot()
	deposits := f.deposits.snapshot()
	cards := f.giftCards.snapshot()
	orders := f.orders.snapshot()
	if err := fn(f); err != nil {
		f.users.restore(users)
		f.deposits.restore(deposits)
		f.giftCards.restore(cards)
		f.orders.restore(orders)
		return err
	}
	return nil
}

// fakeUsers

type fakeUsers struct {
	rows map[int64]*models.User
}

func (f *fakeUsers) snapshot() map[int64]*models.User {
	cp := make(map[int64]*models.User, len(f.rows))
	for id, u := range f.rows {
		c := *u
		cp[id] = &c
	}
	return cp
}

func (f *fakeUsers) restore(s map[int64]*models.User) { f.rows = s }

func (f *fakeUsers) Ensure(_ context.Context, userID int64) error {
	if _, ok := f.rows[userID]; !ok {
		f.rows[userID] = &models.User{UserID: userID, Balance: decimal.Zero}
	}
	return nil
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	if _, ok := f.rows[user.UserID]; ok {
		return errors.New("duplicate user")
	}
	c := *user
	f.rows[user.UserID] = &c
	return nil
}

func (f *fakeUsers) Get(_ context.Context, userID int64) (*models.User, error) {
	u, ok := f.rows[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) Exists(_ context.Context, userID int64) (bool, error) {
	_, ok := f.rows[userID]
	return ok, nil
}

func (f *fakeUsers) Credit(ctx context.Context, userID int64, amount decimal.Decimal) error {
	if err := f.Ensure(ctx, userID); err != nil {
		return err
	}
	f.rows[userID].Balance = f.rows[userID].Balance.Add(amount)
	return nil
}

func (f *fakeUsers) DebitIfEnough(_ context.Context, userID int64, amount decimal.Decimal) (bool, error) {
	u, ok := f.rows[userID]
	if !ok || u.Balance.LessThan(amount) {
		return false, nil
	}
	u.Balance = u.Balance.Sub(amount)
	return true, nil
}

// fakeDeposits

type fakeDeposits struct {
	clock *fakeClock
	seq   uint
	rows  []*models.Deposit
}

type depositsSnapshot struct {
	seq  uint
	rows []*models.Deposit
}

func (f *fakeDeposits) snapshot() depositsSnapshot {
	rows := make([]*models.Deposit, len(f.rows))
	for i, d := range f.rows {
		c := *d
		rows[i] = &c
	}
	return depositsSnapshot{seq: f.seq, rows: rows}
}

func (f *fakeDeposits) restore(s depositsSnapshot) {
	f.seq = s.seq
	f.rows = s.rows
}

func (f *fakeDeposits) Create(_ context.Context, dep *models.Deposit) error {
	f.seq++
	dep.ID = f.seq
	dep.CreatedAt = f.clock.next()
	if dep.Status == "" {
		dep.Status = models.DepositPending
	}
	c := *dep
	f.rows = append(f.rows, &c)
	return nil
}

func (f *fakeDeposits) find(id uint) *models.Deposit {
	for _, d := range f.rows {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (f *fakeDeposits) Get(_ context.Context, id uint) (*models.Deposit, error) {
	d := f.find(id)
	if d == nil {
		return nil, models.ErrNotFound
	}
	c := *d
	return &c, nil
}

func (f *fakeDeposits) SetEvidence(_ context.Context, id uint, txid string, amount decimal.Decimal) (bool, error) {
	d := f.find(id)
	if d == nil || d.Status != models.DepositPending {
		return false, nil
	}
	d.TxID = txid
	d.Amount = amount
	return true, nil
}

func (f *fakeDeposits) SetStatus(_ context.Context, id uint, from, to models.DepositStatus) (bool, error) {
	d := f.find(id)
	if d == nil || d.Status != from {
		return false, nil
	}
	d.Status = to
	return true, nil
}

func (f *fakeDeposits) ListByStatus(_ context.Context, status models.DepositStatus, limit int) ([]models.Deposit, error) {
	var out []models.Deposit
	for _, d := range f.rows {
		if d.Status == status {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeDeposits) ListRecent(_ context.Context, limit int) ([]models.Deposit, error) {
	out := make([]models.Deposit, 0, len(f.rows))
	for _, d := range f.rows {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeGiftCards

type fakeGiftCards struct {
	clock *fakeClock
	seq   uint
	rows  []*models.GiftCard
}

type cardsSnapshot struct {
	seq  uint
	rows []*models.GiftCard
}

func (f *fakeGiftCards) snapshot() cardsSnapshot {
	rows := make([]*models.GiftCard, len(f.rows))
	for i, c := range f.rows {
		cp := *c
		rows[i] = &cp
	}
	return cardsSnapshot{seq: f.seq, rows: rows}
}

func (f *fakeGiftCards) restore(s cardsSnapshot) {
	f.seq = s.seq
	f.rows = s.rows
}

func (f *fakeGiftCards) Create(_ context.Context, card *models.GiftCard) error {
	f.seq++
	card.ID = f.seq
	card.CreatedAt = f.clock.next()
	if card.Status == "" {
		card.Status = models.CardAvailable
	}
	c := *card
	f.rows = append(f.rows, &c)
	return nil
}

func (f *fakeGiftCards) find(id uint) *models.GiftCard {
	for _, c := range f.rows {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (f *fakeGiftCards) Get(_ context.Context, id uint) (*models.GiftCard, error) {
	c := f.find(id)
	if c == nil {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeGiftCards) ListAvailable(_ context.Context) ([]models.GiftCard, error) {
	return f.filter(func(c *models.GiftCard) bool { return c.Status == models.CardAvailable }), nil
}

func (f *fakeGiftCards) ListByBrand(_ context.Context, brand string) ([]models.GiftCard, error) {
	return f.filter(func(c *models.GiftCard) bool {
		return c.Status == models.CardAvailable && c.Brand == brand
	}), nil
}

func (f *fakeGiftCards) ListByBIN(_ context.Context, bin string) ([]models.GiftCard, error) {
	return f.filter(func(c *models.GiftCard) bool {
		return c.Status == models.CardAvailable && c.BIN != nil && *c.BIN == bin
	}), nil
}

func (f *fakeGiftCards) filter(keep func(*models.GiftCard) bool) []models.GiftCard {
	var out []models.GiftCard
	for _, c := range f.rows {
		if keep(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeGiftCards) ListRecent(_ context.Context, limit int) ([]models.GiftCard, error) {
	out := make([]models.GiftCard, 0, len(f.rows))
	for _, c := range f.rows {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeGiftCards) DistinctBrands(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var brands []string
	for _, c := range f.rows {
		if c.Status == models.CardAvailable && !seen[c.Brand] {
			seen[c.Brand] = true
			brands = append(brands, c.Brand)
		}
	}
	sort.Strings(brands)
	return brands, nil
}

func (f *fakeGiftCards) MarkSold(_ context.Context, id uint, buyerID *int64) (bool, error) {
	c := f.find(id)
	if c == nil || c.Status != models.CardAvailable {
		return false, nil
	}
	c.Status = models.CardSold
	c.BuyerID = buyerID
	return true, nil
}

func (f *fakeGiftCards) Delete(_ context.Context, id uint) error {
	for i, c := range f.rows {
		if c.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeOrders

type fakeOrders struct {
	clock    *fakeClock
	seq      uint
	rows     []*models.Order
	failNext bool
}

type ordersSnapshot struct {
	seq  uint
	rows []*models.Order
}

func (f *fakeOrders) snapshot() ordersSnapshot {
	rows := make([]*models.Order, len(f.rows))
	for i, o := range f.rows {
		c := *o
		rows[i] = &c
	}
	return ordersSnapshot{seq: f.seq, rows: rows}
}

func (f *fakeOrders) restore(s ordersSnapshot) {
	f.seq = s.seq
	f.rows = s.rows
}

func (f *fakeOrders) Create(_ context.Context, order *models.Order) error {
	if f.failNext {
		f.failNext = false
		return errors.New("order insert failed")
	}
	f.seq++
	order.ID = f.seq
	order.CreatedAt = f.clock.next()
	c := *order
	f.rows = append(f.rows, &c)
	return nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID int64, limit int) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.rows {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// recordingNotifier captures the fire-and-forget notifications.
type recordingNotifier struct {
	users    map[int64][]string
	admin    []string
	announce []string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{users: map[int64][]string{}}
}

func (n *recordingNotifier) NotifyUser(userID int64, text string) {
	n.users[userID] = append(n.users[userID], text)
}

func (n *recordingNotifier) NotifyAdmin(text string) {
	n.admin = append(n.admin, text)
}

func (n *recordingNotifier) Announce(text string) {
	n.announce = append(n.announce, text)
}
