// Package storetest holds behaviour checks shared by every database.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/database"
)

// Run exercises a freshly migrated, empty store.
func Run(t *testing.T, store database.Store) {
	t.Helper()
	ctx := context.Background()

	var aliceID, bobID int64

	t.Run("EmptyStore", func(t *testing.T) {
		count, err := store.CountUsers(ctx)
		if err != nil {
			t.Fatalf("CountUsers: %v", err)
		}
		if count != 0 {
			t.Errorf("expected 0 users, got %d", count)
		}
		users, err := store.LoadAllUsers(ctx)
		if err != nil {
			t.Fatalf("LoadAllUsers: %v", err)
		}
		if len(users) != 0 {
			t.Errorf("expected no users, got %d", len(users))
		}
	})

	t.Run("UpsertInsertsThenOverwrites", func(t *testing.T) {
		var err error
		aliceID, err = store.UpsertUserEncoding(ctx, "Alice", "AAAA")
		if err != nil {
			t.Fatalf("insert Alice: %v", err)
		}
		bobID, err = store.UpsertUserEncoding(ctx, "Bob", "BBBB")
		if err != nil {
			t.Fatalf("insert Bob: %v", err)
		}
		if aliceID == bobID {
			t.Fatalf("expected distinct ids, both %d", aliceID)
		}

		again, err := store.UpsertUserEncoding(ctx, "Alice", "CCCC")
		if err != nil {
			t.Fatalf("re-register Alice: %v", err)
		}
		if again != aliceID {
			t.Errorf("re-registration changed id: %d -> %d", aliceID, again)
		}

		users, err := store.LoadAllUsers(ctx)
		if err != nil {
			t.Fatalf("LoadAllUsers: %v", err)
		}
		if len(users) != 2 {
			t.Fatalf("expected 2 users, got %d", len(users))
		}
		if users[0].Name != "Alice" || users[0].RawEncoding == nil || *users[0].RawEncoding != "CCCC" {
			t.Errorf("unexpected first user: %+v", users[0])
		}
		if users[1].Name != "Bob" {
			t.Errorf("expected Bob second, got %q", users[1].Name)
		}
	})

	t.Run("AttendanceOncePerDayCheck", func(t *testing.T) {
		has, err := store.HasAttendanceToday(ctx, aliceID, "2026-03-09")
		if err != nil {
			t.Fatalf("HasAttendanceToday: %v", err)
		}
		if has {
			t.Error("expected no attendance before insert")
		}

		rec := database.AttendanceRecord{UserID: aliceID, Name: "Alice", Date: "2026-03-09", Time: "08:15:00"}
		if err := store.InsertAttendance(ctx, rec); err != nil {
			t.Fatalf("InsertAttendance: %v", err)
		}

		has, err = store.HasAttendanceToday(ctx, aliceID, "2026-03-09")
		if err != nil {
			t.Fatalf("HasAttendanceToday: %v", err)
		}
		if !has {
			t.Error("expected attendance after insert")
		}

		has, err = store.HasAttendanceToday(ctx, aliceID, "2026-03-10")
		if err != nil {
			t.Fatalf("HasAttendanceToday: %v", err)
		}
		if has {
			t.Error("attendance leaked into the next day")
		}

		has, err = store.HasAttendanceToday(ctx, bobID, "2026-03-09")
		if err != nil {
			t.Fatalf("HasAttendanceToday: %v", err)
		}
		if has {
			t.Error("attendance leaked to another user")
		}
	})

	t.Run("ListAttendanceRange", func(t *testing.T) {
		more := []database.AttendanceRecord{
			{UserID: bobID, Name: "Bob", Date: "2026-03-09", Time: "07:59:30"},
			{UserID: aliceID, Name: "Alice", Date: "2026-03-10", Time: "09:00:00"},
		}
		for _, rec := range more {
			if err := store.InsertAttendance(ctx, rec); err != nil {
				t.Fatalf("InsertAttendance: %v", err)
			}
		}

		all, err := store.ListAttendance(ctx, "", "")
		if err != nil {
			t.Fatalf("ListAttendance: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 records, got %d", len(all))
		}
		if all[0].Name != "Bob" || all[0].Time != "07:59:30" {
			t.Errorf("records not ordered by date and time: %+v", all[0])
		}
		if all[2].Date != "2026-03-10" {
			t.Errorf("expected last record on 2026-03-10, got %s", all[2].Date)
		}

		day, err := store.ListAttendance(ctx, "2026-03-09", "2026-03-09")
		if err != nil {
			t.Fatalf("ListAttendance: %v", err)
		}
		if len(day) != 2 {
			t.Errorf("expected 2 records on 2026-03-09, got %d", len(day))
		}
	})

	t.Run("DeleteUserKeepsAttendance", func(t *testing.T) {
		if err := store.DeleteUser(ctx, bobID); err != nil {
			t.Fatalf("DeleteUser: %v", err)
		}
		err := store.DeleteUser(ctx, bobID)
		if !errors.Is(err, database.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}

		count, err := store.CountUsers(ctx)
		if err != nil {
			t.Fatalf("CountUsers: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 user left, got %d", count)
		}

		records, err := store.ListAttendance(ctx, "2026-03-09", "2026-03-09")
		if err != nil {
			t.Fatalf("ListAttendance: %v", err)
		}
		var found bool
		for _, r := range records {
			if r.Name == "Bob" {
				found = true
				if r.UserID != 0 {
					t.Errorf("expected detached record, got user id %d", r.UserID)
				}
			}
		}
		if !found {
			t.Error("Bob's attendance disappeared with the user")
		}
	})
}
