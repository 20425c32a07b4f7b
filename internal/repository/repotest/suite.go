// Package repotest holds the behaviour every TelegramUserRepository must share.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/VladKovDev/tguser-api/internal/domain/entity"
	"github.com/VladKovDev/tguser-api/internal/domain/repository"
)

// Repo is a store under test whose clock can be driven by the suite.
type Repo interface {
	repository.TelegramUserRepository
	SetClock(now func() time.Time)
}

// Clock hands out strictly increasing microsecond timestamps.
type Clock struct {
	mu  sync.Mutex
	cur time.Time
}

func NewClock() *Clock {
	return &Clock{cur: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

func strPtr(s string) *string { return &s }

// Run executes the shared suite. newRepo must return an empty store.
func Run(t *testing.T, newRepo func(t *testing.T) Repo) {
	ctx := context.Background()

	setup := func(t *testing.T) Repo {
		r := newRepo(t)
		r.SetClock(NewClock().Now)
		return r
	}

	t.Run("CreateAppliesDefaults", func(t *testing.T) {
		r := setup(t)
		u := &entity.TelegramUser{
			TelegramID: 123456789,
			Username:   strPtr("test_username"),
			FullName:   strPtr("Test Full Name"),
		}
		if err := r.Create(ctx, u); err != nil {
			t.Fatalf("Create: %v", err)
		}

		got, err := r.Get(ctx, 123456789)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Username == nil || *got.Username != "test_username" {
			t.Errorf("Username = %v", got.Username)
		}
		if got.FullName == nil || *got.FullName != "Test Full Name" {
			t.Errorf("FullName = %v", got.FullName)
		}
		if got.Balance != 0 || got.IsManager || got.IsAdmin {
			t.Errorf("defaults not applied: %+v", got)
		}
		if got.Created.IsZero() || !got.Created.Equal(got.Updated) {
			t.Errorf("created=%v updated=%v, want equal and non-zero", got.Created, got.Updated)
		}
		if !u.Created.Equal(got.Created) {
			t.Errorf("Create did not stamp the caller's record")
		}
	})

	t.Run("CreateDuplicateConflicts", func(t *testing.T) {
		r := setup(t)
		if err := r.Create(ctx, &entity.TelegramUser{TelegramID: 7}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		err := r.Create(ctx, &entity.TelegramUser{TelegramID: 7, Username: strPtr("other")})
		if !errors.Is(err, entity.ErrConflict) {
			t.Fatalf("second Create error = %v, want ErrConflict", err)
		}
		got, err := r.Get(ctx, 7)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Username != nil {
			t.Errorf("duplicate create overwrote record: %v", *got.Username)
		}
	})

	t.Run("ConcurrentCreatesOneWins", func(t *testing.T) {
		r := setup(t)
		const workers = 8
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- r.Create(ctx, &entity.TelegramUser{TelegramID: 99})
			}()
		}
		wg.Wait()
		close(errs)

		var ok, conflicts int
		for err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, entity.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		if ok != 1 || conflicts != workers-1 {
			t.Errorf("ok=%d conflicts=%d, want 1 and %d", ok, conflicts, workers-1)
		}
	})

	t.Run("CreateRejectsOversizedFields", func(t *testing.T) {
		r := setup(t)
		err := r.Create(ctx, &entity.TelegramUser{TelegramID: 1, Username: strPtr(strings.Repeat("u", 41))})
		var verr *entity.ValidationError
		if !errors.As(err, &verr) || verr.Field != "username" {
			t.Fatalf("Create error = %v, want username violation", err)
		}
		if _, err := r.Get(ctx, 1); !errors.Is(err, entity.ErrNotFound) {
			t.Errorf("invalid record was persisted: %v", err)
		}
	})

	t.Run("UpdateMergesSuppliedFields", func(t *testing.T) {
		r := setup(t)
		orig := &entity.TelegramUser{
			TelegramID: 111222333,
			Username:   strPtr("before"),
			FullName:   strPtr("Kept Name"),
			Balance:    15,
			IsManager:  true,
		}
		if err := r.Create(ctx, orig); err != nil {
			t.Fatalf("Create: %v", err)
		}

		got, err := r.Update(ctx, 111222333, entity.Patch{Username: entity.Some(strPtr("updated username"))})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if got.Username == nil || *got.Username != "updated username" {
			t.Errorf("Username = %v", got.Username)
		}
		if got.FullName == nil || *got.FullName != "Kept Name" {
			t.Errorf("FullName = %v, want unchanged", got.FullName)
		}
		if got.Balance != 15 || !got.IsManager || got.IsAdmin {
			t.Errorf("unrelated fields changed: %+v", got)
		}
		if !got.Created.Equal(orig.Created) {
			t.Errorf("Created changed: %v -> %v", orig.Created, got.Created)
		}
		if !got.Updated.After(orig.Updated) {
			t.Errorf("Updated not advanced: %v -> %v", orig.Updated, got.Updated)
		}

		stored, err := r.Get(ctx, 111222333)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !stored.Updated.Equal(got.Updated) || *stored.Username != "updated username" {
			t.Errorf("stored record differs from returned: %+v", stored)
		}
	})

	t.Run("UpdateClearsNullableField", func(t *testing.T) {
		r := setup(t)
		if err := r.Create(ctx, &entity.TelegramUser{TelegramID: 5, FullName: strPtr("x")}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := r.Update(ctx, 5, entity.Patch{FullName: entity.Some[*string](nil), IsAdmin: entity.Some(true)})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if got.FullName != nil || !got.IsAdmin {
			t.Errorf("patch not applied: %+v", got)
		}
	})

	t.Run("UpdateMissingNotFound", func(t *testing.T) {
		r := setup(t)
		_, err := r.Update(ctx, 404, entity.Patch{Balance: entity.Some[int64](1)})
		if !errors.Is(err, entity.ErrNotFound) {
			t.Fatalf("Update error = %v, want ErrNotFound", err)
		}
	})

	t.Run("UpdateRejectsOversizedFields", func(t *testing.T) {
		r := setup(t)
		if err := r.Create(ctx, &entity.TelegramUser{TelegramID: 6}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		_, err := r.Update(ctx, 6, entity.Patch{FullName: entity.Some(strPtr(strings.Repeat("f", 201)))})
		var verr *entity.ValidationError
		if !errors.As(err, &verr) || verr.Field != "fullName" {
			t.Fatalf("Update error = %v, want fullName violation", err)
		}
	})

	t.Run("DeleteThenGetNotFound", func(t *testing.T) {
		r := setup(t)
		if err := r.Create(ctx, &entity.TelegramUser{TelegramID: 8}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := r.Delete(ctx, 8); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := r.Get(ctx, 8); !errors.Is(err, entity.ErrNotFound) {
			t.Errorf("Get after delete = %v, want ErrNotFound", err)
		}
		if err := r.Delete(ctx, 8); !errors.Is(err, entity.ErrNotFound) {
			t.Errorf("second Delete = %v, want ErrNotFound", err)
		}
	})

	t.Run("ListPaginatesInIDOrder", func(t *testing.T) {
		r := setup(t)
		for _, id := range []int64{31, 5, 17, -3, 12} {
			u := &entity.TelegramUser{TelegramID: id, Username: strPtr(fmt.Sprintf("user_%d", id))}
			if err := r.Create(ctx, u); err != nil {
				t.Fatalf("Create %d: %v", id, err)
			}
		}

		total, err := r.Count(ctx)
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if total != 5 {
			t.Errorf("Count = %d, want 5", total)
		}

		first, err := r.List(ctx, 2, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		second, err := r.List(ctx, 2, 2)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		third, err := r.List(ctx, 2, 4)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		var got []int64
		for _, page := range [][]*entity.TelegramUser{first, second, third} {
			for _, u := range page {
				got = append(got, u.TelegramID)
			}
		}
		want := []int64{-3, 5, 12, 17, 31}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("pages = %v, want %v", got, want)
		}

		past, err := r.List(ctx, 2, 10)
		if err != nil {
			t.Fatalf("List past end: %v", err)
		}
		if len(past) != 0 {
			t.Errorf("List past end returned %d items", len(past))
		}
	})

	t.Run("ListRejectsNegativeWindow", func(t *testing.T) {
		r := setup(t)
		if err := r.Create(ctx, &entity.TelegramUser{TelegramID: 1}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := r.List(ctx, 30, -30); err == nil {
			t.Error("List with negative offset succeeded")
		}
		if _, err := r.List(ctx, -1, 0); err == nil {
			t.Error("List with negative limit succeeded")
		}
	})

	t.Run("UpdatedNeverBeforeCreated", func(t *testing.T) {
		r := setup(t)
		if err := r.Create(ctx, &entity.TelegramUser{TelegramID: 10}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		for i := 0; i < 3; i++ {
			if _, err := r.Update(ctx, 10, entity.Patch{Balance: entity.Some(int64(i))}); err != nil {
				t.Fatalf("Update: %v", err)
			}
		}
		users, err := r.List(ctx, 30, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		for _, u := range users {
			if u.Updated.Before(u.Created) {
				t.Errorf("user %d: updated %v before created %v", u.TelegramID, u.Updated, u.Created)
			}
		}
	})
}
