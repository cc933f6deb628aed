package database

// ConnectCount returns how many times m has opened a connection.
func (m *Manager) ConnectCount() int {
	return m.connects
}

// MarkFailed simulates a failed statement.
func (m *Manager) MarkFailed() {
	m.markFailed()
}

// SetBatchHook installs a function called before each backfill batch.
func (u *Upgrader) SetBatchHook(f func(batch int) error) {
	u.batchHook = f
}

var (
	DuplicateGroups   = duplicateGroups
	BackfillStatement = backfillStatement
)
