package reservation

import (
	"context"
	"database/sql"

	"github.com/reservado/Reservado-BookingService/pkg/dbmetrics"
)

// Database executor interfaces shared with dbmetrics so the repository works
// against *sql.DB, *dbmetrics.DB and transaction executors alike.
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// TxBeginner starts transactions. Satisfied by *dbmetrics.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error)
}
