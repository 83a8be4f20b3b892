package unitofwork

import "context"

// RepositoryFactory opens units of work; services depend on this
// instead of a live gorm handle so tests can substitute fakes.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
