package texture

// ManagerBuilderOption is a functional option applied to a manager during construction via NewManager.
type ManagerBuilderOption func(*managerImpl)

// WithWorkers sets the maximum number of concurrent decode workers.
//
// Parameters:
//   - n: the worker count, ignored if less than 1
//
// Returns:
//   - ManagerBuilderOption: a function that sets the worker count
func WithWorkers(n int) ManagerBuilderOption {
	return func(m *managerImpl) {
		if n > 0 {
			m.workers = n
		}
	}
}
