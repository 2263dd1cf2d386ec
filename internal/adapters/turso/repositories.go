package turso

import (
	"database/sql"

	"github.com/splitdeck/splitdeck/internal/ports"
)

// Repositories holds all turso repository implementations as port interfaces.
type Repositories struct {
	Experiments ports.ExperimentRepository
	AuditLogs   ports.AuditLogRepository
	Users       ports.UserRepository
}

// NewRepositories creates all turso repository implementations from a database connection.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Experiments: NewExperimentRepository(db),
		AuditLogs:   NewAuditLogRepository(db),
		Users:       NewUserRepository(db),
	}
}
