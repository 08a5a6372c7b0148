package ports

import "context"

// TxManager runs fn inside one store transaction. Repositories called with the
// ctx passed to fn join that transaction. fn returning an error rolls back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
