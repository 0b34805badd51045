package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lodymel/heartpass/internal/events"
	"github.com/lodymel/heartpass/internal/lifecycle"
	"github.com/lodymel/heartpass/internal/model"
	"github.com/lodymel/heartpass/internal/repository"
	pkgerrors "github.com/lodymel/heartpass/pkg/errors"
	"github.com/lodymel/heartpass/pkg/mailer"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock PassRepository ──
// 按值保存，模拟数据库行与乐观锁

type mockPassRepo struct {
	mu     sync.Mutex
	passes map[string]model.Pass
	seq    int
	gets   int
	// 注入错误
	updateErr error
}

func newMockPassRepo() *mockPassRepo {
	return &mockPassRepo{passes: make(map[string]model.Pass)}
}

func (m *mockPassRepo) Create(_ context.Context, pass *model.Pass) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pass.PassID == "" {
		m.seq++
		pass.PassID = uuid.NewString()
	}
	if pass.Version == 0 {
		pass.Version = 1
	}
	pass.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	pass.UpdatedAt = pass.CreatedAt
	m.passes[pass.PassID] = *pass
	return nil
}

func (m *mockPassRepo) GetByID(_ context.Context, id string) (*model.Pass, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	p, ok := m.passes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (m *mockPassRepo) Update(_ context.Context, pass *model.Pass) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.passes[pass.PassID]
	if !ok || stored.Version != pass.Version {
		return pkgerrors.ErrOptimisticLock
	}
	pass.Version++
	pass.UpdatedAt = time.Now()
	m.passes[pass.PassID] = *pass
	return nil
}

func (m *mockPassRepo) Delete(_ context.Context, id string, version int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.passes[id]
	if !ok || stored.Version != version {
		return pkgerrors.ErrOptimisticLock
	}
	delete(m.passes, id)
	return nil
}

func (m *mockPassRepo) ListByOwner(_ context.Context, ownerID string, f repository.PassFilter) ([]model.Pass, int64, error) {
	return m.list(f, func(p *model.Pass) bool {
		return p.OwnerUserID == ownerID && p.OwnerRemovedAt == nil
	})
}

func (m *mockPassRepo) ListReceived(_ context.Context, userID, email string, f repository.PassFilter) ([]model.Pass, int64, error) {
	return m.list(f, func(p *model.Pass) bool {
		return isReceivedBy(p, userID, email)
	})
}

func (m *mockPassRepo) ListPendingForRecipient(_ context.Context, userID, email string, today time.Time, limit int) ([]model.Pass, error) {
	passes, _, err := m.list(repository.PassFilter{Status: "pending", Today: today, Limit: limit}, func(p *model.Pass) bool {
		return isReceivedBy(p, userID, email)
	})
	return passes, err
}

func (m *mockPassRepo) list(f repository.PassFilter, match func(p *model.Pass) bool) ([]model.Pass, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []model.Pass
	for _, p := range m.passes {
		p := p
		if !match(&p) {
			continue
		}
		if f.Status != "" && f.Status != "all" && string(lifecycle.EffectiveStatus(&p, f.Today)) != f.Status {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if f.Limit <= 0 {
		return all, total, nil
	}
	if f.Offset >= len(all) {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[f.Offset:end], total, nil
}

func isReceivedBy(p *model.Pass, userID, email string) bool {
	if p.RecipientUserID != nil && *p.RecipientUserID == userID {
		return true
	}
	return p.RecipientEmail != nil && strings.EqualFold(*p.RecipientEmail, email)
}

func (m *mockPassRepo) get(id string) model.Pass {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.passes[id]
}

func (m *mockPassRepo) put(p model.Pass) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passes[p.PassID] = p
}

// ── 外部依赖替身 ──

type fakeCompleter struct {
	text  string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []*mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg *mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeBlacklist struct {
	revoked map[string]time.Duration
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{revoked: make(map[string]time.Duration)}
}

func (f *fakeBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := f.revoked[jti]
	return ok, nil
}

type recordingBroker struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBroker) Publish(_ context.Context, e events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *recordingBroker) Subscribe(context.Context) (<-chan events.Event, func(), error) {
	ch := make(chan events.Event)
	return ch, func() {}, nil
}

func (b *recordingBroker) Close() error { return nil }

func (b *recordingBroker) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type)
	}
	return out
}
