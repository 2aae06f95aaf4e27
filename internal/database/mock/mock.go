// Package mock provides an in-memory implementation of database.Store for testing.
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kozaktomas/face-attendance/internal/database"
)

// MockStore is an in-memory database.Store. Deleting a user detaches its
// attendance records the same way the SQL backends' ON DELETE SET NULL does.
type MockStore struct {
	mu         sync.RWMutex
	users      []database.User
	attendance []database.AttendanceRecord
	nextUserID int64
	nextAttID  int64
	migrated   bool

	// Error injection
	LoadUsersError   error
	CountUsersError  error
	UpsertError      error
	HasError         error
	InsertError      error
	ListError        error
	MigrateError     error
	CloseError       error
	DeleteUserErrors map[int64]error

	// Call tracking
	InsertCalls  []database.AttendanceRecord
	UpsertCalls  []UpsertCall
	DeletedUsers []int64
	Closed       bool
}

// UpsertCall records a call to UpsertUserEncoding
type UpsertCall struct {
	Name     string
	Encoding string
}

var _ database.Store = (*MockStore)(nil)

// NewMockStore creates an empty mock store
func NewMockStore() *MockStore {
	return &MockStore{
		nextUserID:       1,
		nextAttID:        1,
		DeleteUserErrors: make(map[int64]error),
	}
}

// AddUser seeds a user row. A nil encoding models a NULL column.
func (m *MockStore) AddUser(name string, encoding *string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextUserID
	m.nextUserID++
	m.users = append(m.users, database.User{ID: id, Name: name, RawEncoding: copyString(encoding)})
	return id
}

// AddAttendance seeds an attendance record without tracking it as a call
func (m *MockStore) AddAttendance(rec database.AttendanceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = m.nextAttID
	m.nextAttID++
	m.attendance = append(m.attendance, rec)
}

// Attendance returns a copy of the stored records in insertion order
func (m *MockStore) Attendance() []database.AttendanceRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]database.AttendanceRecord, len(m.attendance))
	copy(out, m.attendance)
	return out
}

// Migrated reports whether Migrate has been called successfully
func (m *MockStore) Migrated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.migrated
}

// LoadAllUsers returns every user ordered by id
func (m *MockStore) LoadAllUsers(ctx context.Context) ([]database.User, error) {
	if m.LoadUsersError != nil {
		return nil, m.LoadUsersError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]database.User, len(m.users))
	for i, u := range m.users {
		out[i] = database.User{ID: u.ID, Name: u.Name, RawEncoding: copyString(u.RawEncoding)}
	}
	return out, nil
}

// CountUsers returns the number of users
func (m *MockStore) CountUsers(ctx context.Context) (int, error) {
	if m.CountUsersError != nil {
		return 0, m.CountUsersError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// UpsertUserEncoding overwrites the encoding for name or inserts a new user
func (m *MockStore) UpsertUserEncoding(ctx context.Context, name, encoding string) (int64, error) {
	if m.UpsertError != nil {
		return 0, m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls = append(m.UpsertCalls, UpsertCall{Name: name, Encoding: encoding})

	for i := range m.users {
		if m.users[i].Name == name {
			m.users[i].RawEncoding = &encoding
			return m.users[i].ID, nil
		}
	}
	id := m.nextUserID
	m.nextUserID++
	m.users = append(m.users, database.User{ID: id, Name: name, RawEncoding: &encoding})
	return id, nil
}

// DeleteUser removes a user and detaches its attendance records
func (m *MockStore) DeleteUser(ctx context.Context, id int64) error {
	if err := m.DeleteUserErrors[id]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i := range m.users {
		if m.users[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("user %d: %w", id, database.ErrNotFound)
	}
	m.users = append(m.users[:idx], m.users[idx+1:]...)
	for i := range m.attendance {
		if m.attendance[i].UserID == id {
			m.attendance[i].UserID = 0
		}
	}
	m.DeletedUsers = append(m.DeletedUsers, id)
	return nil
}

// HasAttendanceToday reports whether the user has a record on date
func (m *MockStore) HasAttendanceToday(ctx context.Context, userID int64, date string) (bool, error) {
	if m.HasError != nil {
		return false, m.HasError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.attendance {
		if r.UserID == userID && r.Date == date {
			return true, nil
		}
	}
	return false, nil
}

// InsertAttendance appends a record
func (m *MockStore) InsertAttendance(ctx context.Context, rec database.AttendanceRecord) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertCalls = append(m.InsertCalls, rec)
	rec.ID = m.nextAttID
	m.nextAttID++
	m.attendance = append(m.attendance, rec)
	return nil
}

// ListAttendance returns records within [from, to] ordered by date, time and id
func (m *MockStore) ListAttendance(ctx context.Context, from, to string) ([]database.AttendanceRecord, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make(map[int64]string, len(m.users))
	for _, u := range m.users {
		names[u.ID] = u.Name
	}

	var out []database.AttendanceRecord
	for _, r := range m.attendance {
		if from != "" && r.Date < from {
			continue
		}
		if to != "" && r.Date > to {
			continue
		}
		if name, ok := names[r.UserID]; ok {
			r.Name = name
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Migrate marks the store as migrated. The first call reports one applied file.
func (m *MockStore) Migrate(ctx context.Context) ([]string, error) {
	if m.MigrateError != nil {
		return nil, m.MigrateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.migrated {
		return nil, nil
	}
	m.migrated = true
	return []string{"mock.sql"}, nil
}

// Close records that the store was closed
func (m *MockStore) Close() error {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
	return m.CloseError
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
