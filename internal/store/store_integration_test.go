//go:build integration

package store

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ESRAILHAQUE/maids-backend/internal/db"
	"github.com/ESRAILHAQUE/maids-backend/internal/models"
)

var testDB *gorm.DB

// TestMain uses TEST_DB_DSN when set, otherwise starts a throwaway Postgres
// container.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DB_DSN")
	var (
		pool     *dockertest.Pool
		resource *dockertest.Resource
	)
	if dsn == "" {
		var err error
		pool, err = dockertest.NewPool("")
		if err != nil {
			log.Fatalf("Could not construct pool: %s", err)
		}
		if err := pool.Client.Ping(); err != nil {
			log.Fatalf("Could not connect to Docker: %s", err)
		}
		resource, err = pool.RunWithOptions(&dockertest.RunOptions{
			Repository: "postgres",
			Tag:        "16-alpine",
			Env: []string{
				"POSTGRES_USER=maids",
				"POSTGRES_PASSWORD=secret",
				"POSTGRES_DB=maids_test",
			},
		}, func(config *docker.HostConfig) {
			config.AutoRemove = true
			config.RestartPolicy = docker.RestartPolicy{Name: "no"}
		})
		if err != nil {
			log.Fatalf("Could not start Postgres resource: %s", err)
		}
		_ = resource.Expire(300)
		dsn = fmt.Sprintf("postgres://maids:secret@%s/maids_test?sslmode=disable", resource.GetHostPort("5432/tcp"))
	}

	connect := func() error {
		gdb, err := db.Connect(dsn)
		if err != nil {
			return err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}
		testDB = gdb
		return nil
	}
	var err error
	if pool != nil {
		err = pool.Retry(connect)
	} else {
		err = connect()
	}
	if err != nil {
		log.Fatalf("Could not connect to Postgres: %s", err)
	}
	if err := db.Migrate(testDB); err != nil {
		log.Fatalf("Could not migrate: %s", err)
	}

	code := m.Run()

	if pool != nil {
		if err := pool.Purge(resource); err != nil {
			log.Printf("Could not purge Postgres resource: %s", err)
		}
	}
	os.Exit(code)
}

func resetTables(t *testing.T) {
	t.Helper()
	require.NoError(t, testDB.Exec("TRUNCATE users, bookings, staff").Error)
}

func newUser(email string) *models.User {
	return &models.User{
		Name:     "Jane",
		Email:    email,
		Password: "hash",
		Role:     models.RoleUser,
		Status:   models.StatusActive,
	}
}

func newBooking(name, phone, area string) *models.Booking {
	return &models.Booking{
		Service:   "Home Cleaning",
		Hours:     3,
		Cleaners:  2,
		Materials: models.MaterialsWith,
		Date:      "2024-01-01",
		Time:      "09:00",
		Area:      area,
		Client:    models.ClientInfo{Name: name, Phone: phone},
		TotalQAR:  100,
		Status:    models.BookingPending,
		Payment:   models.Payment{Status: models.PaymentUnpaid},
	}
}

func TestUserStore_Postgres(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	users := NewUserStore(testDB)

	u := newUser(" Jane@Example.com ")
	require.NoError(t, users.Create(ctx, u))
	assert.ErrorIs(t, users.Create(ctx, newUser("JANE@example.com")), ErrDuplicate)

	got, err := users.GetByEmail(ctx, "JANE@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	now := time.Now().UTC()
	_, err = users.Update(ctx, u.ID, func(u *models.User) error {
		u.SetVerificationSecret("hash-1", now.Add(time.Hour))
		return nil
	})
	require.NoError(t, err)
	got, err = users.GetByVerificationHash(ctx, "hash-1", now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	_, err = users.GetByVerificationHash(ctx, "hash-1", now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)

	boom := fmt.Errorf("rejected")
	_, err = users.Update(ctx, u.ID, func(u *models.User) error {
		u.Name = "changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)
	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)

	pending, err := users.List(ctx, UserFilter{PendingOnly: true})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	require.NoError(t, users.Delete(ctx, u.ID))
	assert.ErrorIs(t, users.Delete(ctx, u.ID), ErrNotFound)
	_, err = users.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingStore_Postgres(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	users := NewUserStore(testDB)
	bookings := NewBookingStore(testDB)

	owner := newUser("owner@example.com")
	require.NoError(t, users.Create(ctx, owner))

	first := newBooking("Alice", "111", "West Bay")
	first.UserID = &owner.ID
	require.NoError(t, bookings.Create(ctx, first))
	second := newBooking("Bob", "222", "50%_off Lane")
	require.NoError(t, bookings.Create(ctx, second))

	got, err := bookings.Get(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, "owner@example.com", got.User.Email)
	assert.Equal(t, []string{}, []string(got.AssignedStaffIDs))

	list, err := bookings.List(ctx, BookingFilter{Search: "west"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	list, err = bookings.List(ctx, BookingFilter{Search: "%_"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	_, err = bookings.Update(ctx, second.ID, func(b *models.Booking) error {
		b.Status = models.BookingConfirmed
		b.AssignedStaffIDs = []string{"s2", "s1"}
		return nil
	})
	require.NoError(t, err)
	list, err = bookings.List(ctx, BookingFilter{Status: models.BookingConfirmed})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"s2", "s1"}, []string(list[0].AssignedStaffIDs))

	all, err := bookings.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)

	require.NoError(t, bookings.Delete(ctx, first.ID))
	assert.ErrorIs(t, bookings.Delete(ctx, first.ID), ErrNotFound)
	_, err = bookings.Update(ctx, uuid.New(), func(*models.Booking) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingStore_UpdateSerializesWriters(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	bookings := NewBookingStore(testDB)
	b := newBooking("Alice", "111", "West Bay")
	require.NoError(t, bookings.Create(ctx, b))

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := bookings.Update(ctx, b.ID, func(b *models.Booking) error {
				b.Cleaners++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := bookings.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2+writers, got.Cleaners)
}

func TestStaffStore_Postgres(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	staff := NewStaffStore(testDB)

	zed := &models.Staff{Name: "Zed", Phone: "1", Role: models.StaffDriver, Active: true}
	amy := &models.Staff{Name: "Amy", Phone: "2", Role: models.StaffCleaner, Active: false}
	bea := &models.Staff{Name: "Bea", Phone: "3", Role: models.StaffSupervisor, Active: true}
	for _, m := range []*models.Staff{zed, amy, bea} {
		require.NoError(t, staff.Create(ctx, m))
	}
	assert.ErrorIs(t, staff.Create(ctx, &models.Staff{Name: "Dup", Phone: "1", Role: models.StaffDriver}), ErrDuplicate)

	list, err := staff.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Bea", "Zed", "Amy"}, []string{list[0].Name, list[1].Name, list[2].Name})

	deleted, err := staff.Delete(ctx, zed.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zed", deleted.Name)
	_, err = staff.Delete(ctx, zed.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
