package clock

import "time"

// RealClock returns the actual system time.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// MockClock returns a fixed, settable time. Intended for tests.
type MockClock struct {
	Current time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{Current: t}
}

func (m *MockClock) Now() time.Time {
	return m.Current
}

// Advance moves the mock clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.Current = m.Current.Add(d)
}
