package repository

import "context"

// TxManager runs fn inside a single database transaction. The returned
// context carries the transaction; repository calls made with it join the
// same transactional scope. fn returning an error rolls everything back.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
