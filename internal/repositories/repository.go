package repositories

import "context"

// Repository aggregates every entity repository plus transaction support.
type Repository interface {
	User() UserRepository
	Topic() TopicRepository
	Report() ReportRepository

	// WithTransaction runs fn against a transaction-scoped Repository.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
