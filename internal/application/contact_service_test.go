package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrsolo/contactbook/internal/domain/entity"
	repo "github.com/andrsolo/contactbook/internal/domain/repository"
)

type fakeContactRepo struct {
	nextID   int64
	contacts map[int64]*entity.Contact

	getCalls      int
	birthdayCalls int
	lastMonthDays []string
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: map[int64]*entity.Contact{}}
}

func (r *fakeContactRepo) Create(_ context.Context, c *entity.Contact) error {
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.contacts[c.ID] = &cp
	return nil
}

func (r *fakeContactRepo) Get(_ context.Context, id, userID int64) (*entity.Contact, error) {
	r.getCalls++
	c, ok := r.contacts[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeContactRepo) List(_ context.Context, skip, limit int, userID int64) ([]entity.Contact, error) {
	var out []entity.Contact
	for id := int64(1); id <= r.nextID; id++ {
		if c, ok := r.contacts[id]; ok && c.UserID == userID {
			out = append(out, *c)
		}
	}
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeContactRepo) Update(_ context.Context, id, userID int64, upd repo.ContactUpdate) (*entity.Contact, error) {
	c, ok := r.contacts[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	if upd.FirstName != nil {
		c.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		c.LastName = *upd.LastName
	}
	if upd.Email != nil {
		c.Email = *upd.Email
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	if upd.Birthday != nil {
		c.Birthday = *upd.Birthday
	}
	if upd.Info != nil {
		c.Info = *upd.Info
	}
	cp := *c
	return &cp, nil
}

func (r *fakeContactRepo) Delete(_ context.Context, id, userID int64) (*entity.Contact, error) {
	c, ok := r.contacts[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	delete(r.contacts, id)
	return c, nil
}

func (r *fakeContactRepo) Find(_ context.Context, query string, skip, limit int, userID int64) ([]entity.Contact, error) {
	return r.List(context.Background(), skip, limit, userID)
}

func (r *fakeContactRepo) Birthdays(_ context.Context, monthDays []string, skip, limit int, userID int64) ([]entity.Contact, error) {
	r.birthdayCalls++
	r.lastMonthDays = monthDays
	keys := map[string]bool{}
	for _, d := range monthDays {
		keys[d] = true
	}
	var out []entity.Contact
	for id := int64(1); id <= r.nextID; id++ {
		if c, ok := r.contacts[id]; ok && c.UserID == userID && keys[c.Birthday.Format("01-02")] {
			out = append(out, *c)
		}
	}
	return out, nil
}

type memBackend struct {
	store map[string][]byte
}

func (b *memBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := b.store[key]
	return v, ok, nil
}

func (b *memBackend) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	b.store[key] = value
	return nil
}

func newTestContactService(t *testing.T) (*ContactService, *fakeContactRepo) {
	t.Helper()
	contacts := newFakeContactRepo()
	svc := NewContactService(contacts, &memBackend{store: map[string][]byte{}}, quietLogger(),
		nil, "", 300*time.Second, 600*time.Second)
	return svc, contacts
}

func addContact(t *testing.T, svc *ContactService, userID int64, first string, birthday time.Time) *entity.Contact {
	t.Helper()
	c, err := svc.Create(context.Background(), ContactInput{
		FirstName: first,
		LastName:  "Tester",
		Email:     first + "@example.com",
		Phone:     "+100000000",
		Birthday:  birthday,
	}, userID)
	require.NoError(t, err)
	return c
}

func TestGetCachesContact(t *testing.T) {
	svc, contacts := newTestContactService(t)
	c := addContact(t, svc, 1, "Bob", time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC))

	got, err := svc.Get(context.Background(), c.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.FirstName)
	assert.Equal(t, 1, contacts.getCalls)

	// Second read is served from the cache.
	got, err = svc.Get(context.Background(), c.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.FirstName)
	assert.Equal(t, 1, contacts.getCalls)
}

func TestGetIsOwnerScoped(t *testing.T) {
	svc, contacts := newTestContactService(t)
	c := addContact(t, svc, 1, "Bob", time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC))

	// Warm the owner's cache entry first.
	_, err := svc.Get(context.Background(), c.ID, 1)
	require.NoError(t, err)

	// Another user asking for the same id must not hit that entry.
	_, err = svc.Get(context.Background(), c.ID, 2)
	assert.ErrorIs(t, err, ErrContactNotFound)
	assert.Equal(t, 2, contacts.getCalls)
}

func TestGetMissIsNotCached(t *testing.T) {
	svc, contacts := newTestContactService(t)

	_, err := svc.Get(context.Background(), 99, 1)
	assert.ErrorIs(t, err, ErrContactNotFound)
	_, err = svc.Get(context.Background(), 99, 1)
	assert.ErrorIs(t, err, ErrContactNotFound)
	assert.Equal(t, 2, contacts.getCalls)
}

func TestUpdatePartial(t *testing.T) {
	svc, _ := newTestContactService(t)
	c := addContact(t, svc, 1, "Bob", time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC))

	phone := "+200000000"
	got, err := svc.Update(context.Background(), c.ID, 1, repo.ContactUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "+200000000", got.Phone)
	assert.Equal(t, "Bob", got.FirstName)

	// Someone else's contact updates like a missing one.
	_, err = svc.Update(context.Background(), c.ID, 2, repo.ContactUpdate{Phone: &phone})
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestDeleteReturnsLastState(t *testing.T) {
	svc, _ := newTestContactService(t)
	c := addContact(t, svc, 1, "Bob", time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC))

	got, err := svc.Delete(context.Background(), c.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.FirstName)

	_, err = svc.Delete(context.Background(), c.ID, 1)
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestBirthdayWindow(t *testing.T) {
	svc, contacts := newTestContactService(t)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC) }

	inWindow := addContact(t, svc, 1, "Soon", time.Date(1985, 6, 17, 0, 0, 0, 0, time.UTC))
	addContact(t, svc, 1, "Later", time.Date(1985, 6, 18, 0, 0, 0, 0, time.UTC))

	got, err := svc.Birthdays(context.Background(), 0, 100, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inWindow.ID, got[0].ID)

	// Eight day keys: today through today+7 inclusive.
	require.Len(t, contacts.lastMonthDays, 8)
	assert.Equal(t, "06-10", contacts.lastMonthDays[0])
	assert.Equal(t, "06-17", contacts.lastMonthDays[7])
}

func TestBirthdayWindowWrapsYear(t *testing.T) {
	svc, contacts := newTestContactService(t)
	svc.now = func() time.Time { return time.Date(2025, 12, 28, 12, 0, 0, 0, time.UTC) }

	newYears := addContact(t, svc, 1, "Janus", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC))

	got, err := svc.Birthdays(context.Background(), 0, 100, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, newYears.ID, got[0].ID)

	assert.Equal(t, "12-28", contacts.lastMonthDays[0])
	assert.Equal(t, "01-04", contacts.lastMonthDays[7])
}

func TestBirthdaysCachedPerPage(t *testing.T) {
	svc, contacts := newTestContactService(t)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC) }

	_, err := svc.Birthdays(context.Background(), 0, 100, 1)
	require.NoError(t, err)
	_, err = svc.Birthdays(context.Background(), 0, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, contacts.birthdayCalls)

	// A different page misses the first page's entry.
	_, err = svc.Birthdays(context.Background(), 100, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, contacts.birthdayCalls)
}
