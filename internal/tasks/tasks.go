package tasks

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrUnknownTask = errors.New("unknown task")

// Task represents a scheduled task that needs to be executed
type Task interface {
	Name() string
	Start()
	Stop()
	// RunOnce performs one pass outside the schedule.
	RunOnce() error
}

// Manager handles the execution of scheduled tasks
type Manager struct {
	mu     sync.Mutex
	logger *zap.Logger
	tasks  []Task
}

// NewManager creates a new task manager
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.L()
	}
	return &Manager{logger: logger}
}

// RegisterTask registers a task with the manager
func (m *Manager) RegisterTask(task Task) {
	m.mu.Lock()
	m.tasks = append(m.tasks, task)
	m.mu.Unlock()
}

// Names lists the registered tasks in registration order.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.tasks))
	for _, task := range m.tasks {
		names = append(names, task.Name())
	}
	return names
}

// RunTask runs the named task once, now.
func (m *Manager) RunTask(name string) error {
	m.mu.Lock()
	var found Task
	for _, task := range m.tasks {
		if task.Name() == name {
			found = task
			break
		}
	}
	m.mu.Unlock()

	if found == nil {
		return ErrUnknownTask
	}
	return found.RunOnce()
}

// StartScheduledTasks starts all registered tasks
func (m *Manager) StartScheduledTasks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, task := range m.tasks {
		task.Start()
	}
	m.logger.Info("Started all scheduled tasks", zap.Int("count", len(m.tasks)))
}

// StopAllTasks stops all running tasks
func (m *Manager) StopAllTasks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, task := range m.tasks {
		task.Stop()
	}
	m.logger.Info("Stopped all scheduled tasks")
}
