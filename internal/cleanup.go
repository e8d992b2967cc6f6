package internal

import (
	"sync"

	"github.com/rs/zerolog"
)

// CleanupManager tracks resources and ensures ordered cleanup in LIFO order.
type CleanupManager struct {
	mu     sync.Mutex
	funcs  []cleanupFunc
	logger zerolog.Logger
}

type cleanupFunc struct {
	name string
	fn   func() error
}

// NewCleanupManager creates a new cleanup manager that reports failed cleanups to logger.
func NewCleanupManager(logger zerolog.Logger) *CleanupManager {
	return &CleanupManager{logger: logger}
}

// SetLogger replaces the logger used to report failures. The logger is usually
// built after the first cleanups are registered.
func (m *CleanupManager) SetLogger(logger zerolog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// Add registers a cleanup function. Functions are executed in LIFO order
// (last added, first executed) to ensure proper cleanup sequencing.
func (m *CleanupManager) Add(name string, fn func() error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.funcs = append([]cleanupFunc{{name, fn}}, m.funcs...)
}

// Execute runs all cleanup functions in reverse order (LIFO), logging any errors.
// This method always completes all cleanup operations, even if some fail.
// Functions run at most once; a second Execute is a no-op.
func (m *CleanupManager) Execute() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, cleanup := range m.funcs {
		if err := cleanup.fn(); err != nil {
			m.logger.Warn().Err(err).Str("resource", cleanup.name).Msg("cleanup failed")
		}
	}
	m.funcs = nil
}
