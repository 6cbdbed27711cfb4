package factory

import (
	"time"

	"github.com/keepsakehq/keepsake/internal/dependencies/mocks"
	"github.com/keepsakehq/keepsake/internal/storage/memory"
	"github.com/keepsakehq/keepsake/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app, err := newWithDependencies(store, mockClock, mockRandom, []byte("test-secret"), testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
