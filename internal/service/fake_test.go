package service

import (
	"context"
	"maps"
	"slices"
	"sort"

	"makerspace/internal/balance"
	"makerspace/internal/domain"
	"makerspace/internal/events"
	"makerspace/internal/store"

	"github.com/google/uuid"
)

// fakeState is the in-memory database behind fakeRepo.
type fakeState struct {
	users       map[uuid.UUID]domain.User
	profiles    map[uuid.UUID]domain.UserProfile
	roles       map[string]domain.Role
	consumables map[uuid.UUID]domain.Consumable
	purchases   map[uuid.UUID]domain.Purchase
	adjustments []domain.InventoryAdjustment
}

func (s *fakeState) clone() *fakeState {
	out := &fakeState{
		users:       maps.Clone(s.users),
		profiles:    make(map[uuid.UUID]domain.UserProfile, len(s.profiles)),
		roles:       maps.Clone(s.roles),
		consumables: maps.Clone(s.consumables),
		purchases:   maps.Clone(s.purchases),
		adjustments: slices.Clone(s.adjustments),
	}
	for id, p := range s.profiles {
		p.Roles = slices.Clone(p.Roles)
		out.profiles[id] = p
	}
	return out
}

// fakeRepo implements store.Repository with copy-on-commit transactions.
type fakeRepo struct {
	state *fakeState
	// fail maps a method name to the error it returns, checked on every call
	fail map[string]error
	// unpaidCalls counts ListUnpaidRows; failUnpaidAfter > 0 fails calls past that count
	unpaidCalls     *int
	failUnpaidAfter int
}

func newFakeRepo() *fakeRepo {
	calls := 0
	return &fakeRepo{
		state: &fakeState{
			users:       map[uuid.UUID]domain.User{},
			profiles:    map[uuid.UUID]domain.UserProfile{},
			roles:       map[string]domain.Role{},
			consumables: map[uuid.UUID]domain.Consumable{},
			purchases:   map[uuid.UUID]domain.Purchase{},
		},
		fail:        map[string]error{},
		unpaidCalls: &calls,
	}
}

var _ store.Repository = (*fakeRepo)(nil)

func (f *fakeRepo) Transact(ctx context.Context, fn func(tx store.Repository) error) error {
	tx := *f
	tx.state = f.state.clone()
	if err := fn(&tx); err != nil {
		return err
	}
	*f.state = *tx.state
	return nil
}

func (f *fakeRepo) CreateAccount(ctx context.Context, user *domain.User, profile *domain.UserProfile) error {
	if err := f.fail["CreateAccount"]; err != nil {
		return err
	}
	for _, u := range f.state.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	profile.ID = user.ID
	f.state.users[user.ID] = *user
	f.state.profiles[profile.ID] = *profile
	return nil
}

func (f *fakeRepo) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range f.state.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeRepo) GetProfile(ctx context.Context, id uuid.UUID) (domain.UserProfile, error) {
	if err := f.fail["GetProfile"]; err != nil {
		return domain.UserProfile{}, err
	}
	p, ok := f.state.profiles[id]
	if !ok {
		return domain.UserProfile{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) LockProfile(ctx context.Context, id uuid.UUID) (domain.UserProfile, error) {
	return f.GetProfile(ctx, id)
}

func (f *fakeRepo) ListProfiles(ctx context.Context) ([]domain.UserProfile, error) {
	out := slices.Collect(maps.Values(f.state.profiles))
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *fakeRepo) UpdateContactDetails(ctx context.Context, profile domain.UserProfile) error {
	if _, ok := f.state.profiles[profile.ID]; !ok {
		return domain.ErrNotFound
	}
	f.state.profiles[profile.ID] = profile
	return nil
}

func (f *fakeRepo) SaveRoles(ctx context.Context, id uuid.UUID, roles []string) error {
	if err := f.fail["SaveRoles"]; err != nil {
		return err
	}
	p := f.state.profiles[id]
	p.Roles = slices.Clone(roles)
	f.state.profiles[id] = p
	return nil
}

func (f *fakeRepo) ListRoles(ctx context.Context) ([]domain.Role, error) {
	out := slices.Collect(maps.Values(f.state.roles))
	sort.Slice(out, func(i, j int) bool { return out[i].HierarchyLevel < out[j].HierarchyLevel })
	return out, nil
}

func (f *fakeRepo) RoleExists(ctx context.Context, role string) (bool, error) {
	_, ok := f.state.roles[role]
	return ok, nil
}

func (f *fakeRepo) ListConsumables(ctx context.Context, category domain.Category) ([]domain.Consumable, error) {
	var out []domain.Consumable
	for _, c := range f.state.consumables {
		if category == "" || c.Category == category {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) GetConsumables(ctx context.Context, ids []uuid.UUID) ([]domain.Consumable, error) {
	var out []domain.Consumable
	for _, id := range ids {
		if c, ok := f.state.consumables[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) LockConsumables(ctx context.Context, ids []uuid.UUID) ([]domain.Consumable, error) {
	return f.GetConsumables(ctx, ids)
}

func (f *fakeRepo) SetStock(ctx context.Context, id uuid.UUID, quantity int) error {
	if err := f.fail["SetStock"]; err != nil {
		return err
	}
	c := f.state.consumables[id]
	c.StockQuantity = quantity
	f.state.consumables[id] = c
	return nil
}

func (f *fakeRepo) LowStock(ctx context.Context) ([]domain.Consumable, error) {
	var out []domain.Consumable
	for _, c := range f.state.consumables {
		if c.NeedsReorder() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreatePurchases(ctx context.Context, purchases []domain.Purchase) error {
	if err := f.fail["CreatePurchases"]; err != nil {
		return err
	}
	for _, p := range purchases {
		f.state.purchases[p.ID] = p
	}
	return nil
}

func (f *fakeRepo) ListUnpaidRows(ctx context.Context) ([]balance.Row, error) {
	*f.unpaidCalls++
	if f.failUnpaidAfter > 0 && *f.unpaidCalls > f.failUnpaidAfter {
		return nil, errFake
	}
	var purchases []domain.Purchase
	for _, p := range f.state.purchases {
		if p.Status == domain.StatusUnpaid {
			purchases = append(purchases, p)
		}
	}
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].PurchaseDate.After(purchases[j].PurchaseDate) })
	rows := make([]balance.Row, 0, len(purchases))
	for _, p := range purchases {
		c := f.state.consumables[p.ConsumableID]
		rows = append(rows, balance.Row{
			PurchaseID:     p.ID,
			UserID:         p.UserID,
			FullName:       f.state.profiles[p.UserID].FullName,
			ConsumableName: c.Name,
			Unit:           c.Unit,
			Quantity:       p.Quantity,
			TotalPrice:     p.TotalPrice,
			PurchaseDate:   p.PurchaseDate,
		})
	}
	return rows, nil
}

func (f *fakeRepo) ListUserPurchases(ctx context.Context, userID uuid.UUID, status domain.PurchaseStatus) ([]domain.Purchase, error) {
	var out []domain.Purchase
	for _, p := range f.state.purchases {
		if p.UserID == userID && (status == "" || p.Status == status) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchaseDate.After(out[j].PurchaseDate) })
	return out, nil
}

func (f *fakeRepo) LockPurchase(ctx context.Context, id uuid.UUID) (domain.Purchase, error) {
	p, ok := f.state.purchases[id]
	if !ok {
		return domain.Purchase{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) SetPurchaseStatus(ctx context.Context, id uuid.UUID, status domain.PurchaseStatus) error {
	p, ok := f.state.purchases[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	f.state.purchases[id] = p
	return nil
}

func (f *fakeRepo) CreateAdjustments(ctx context.Context, adjustments []domain.InventoryAdjustment) error {
	f.state.adjustments = append(f.state.adjustments, adjustments...)
	return nil
}

// recorder captures published events.
type recorder struct {
	events []events.Event
	err    error
}

func (r *recorder) Publish(ctx context.Context, evs ...events.Event) error {
	r.events = append(r.events, evs...)
	return r.err
}

func (r *recorder) Close() error { return nil }
