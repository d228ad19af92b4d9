package aggregates

import (
	"context"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/changetrack/internal/domain/aggregates"
	"github.com/yungbote/changetrack/internal/platform/dbctx"
)

// TxRunner runs fn inside one database transaction; an error from fn rolls
// the whole save back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

// InTx does not begin once ctx is done.
func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	switch {
	case fn == nil:
		return nil
	case r == nil || r.db == nil:
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "no database configured for employee writes", nil)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
