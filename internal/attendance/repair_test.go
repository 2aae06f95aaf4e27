package attendance

import (
	"context"
	"errors"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/database/mock"
	"github.com/kozaktomas/face-attendance/internal/facecodec"
	"github.com/kozaktomas/face-attendance/internal/logging"
)

func TestRepairRemovesUndecodableUsers(t *testing.T) {
	codec := facecodec.New(2)
	store := mock.NewMockStore()
	aliceID := store.AddUser("Alice", encode(t, codec, 0.1, 0.2))
	store.AddUser("Bob", strPtr("corrupt=="))

	var ticks int
	summary, err := Repair(context.Background(), store, codec, logging.Nop(), func() { ticks++ })
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if summary.Checked != 2 || ticks != 2 {
		t.Errorf("checked = %d, ticks = %d, want 2", summary.Checked, ticks)
	}
	if len(summary.Removed) != 1 || summary.Removed[0] != "Bob" {
		t.Errorf("removed = %v, want [Bob]", summary.Removed)
	}

	users, err := store.LoadAllUsers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].ID != aliceID {
		t.Fatalf("remaining users = %+v, want only Alice", users)
	}
	enc, err := codec.DecodeNullable(users[0].RawEncoding)
	if err != nil || enc[0] != 0.1 || enc[1] != 0.2 {
		t.Errorf("Alice's encoding changed: %v, %v", enc, err)
	}
}

func TestRepairContinuesPastFailedDelete(t *testing.T) {
	codec := facecodec.New(2)
	store := mock.NewMockStore()
	bobID := store.AddUser("Bob", nil)
	store.AddUser("Carol", strPtr(""))
	store.DeleteUserErrors[bobID] = errors.New("lock wait timeout")

	summary, err := Repair(context.Background(), store, codec, logging.Nop(), nil)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if len(summary.Failed) != 1 || summary.Failed[0] != "Bob" {
		t.Errorf("failed = %v, want [Bob]", summary.Failed)
	}
	if len(summary.Removed) != 1 || summary.Removed[0] != "Carol" {
		t.Errorf("removed = %v, want [Carol]", summary.Removed)
	}
}

func TestRepairLoadError(t *testing.T) {
	store := mock.NewMockStore()
	store.LoadUsersError = errors.New("connection refused")

	if _, err := Repair(context.Background(), store, facecodec.New(2), logging.Nop(), nil); err == nil {
		t.Error("expected error")
	}
}

func TestRepairCancelled(t *testing.T) {
	store := mock.NewMockStore()
	store.AddUser("Bob", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := Repair(ctx, store, facecodec.New(2), logging.Nop(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(store.DeletedUsers) != 0 || summary.Checked != 0 {
		t.Errorf("cancelled repair still worked: %+v", summary)
	}
}
