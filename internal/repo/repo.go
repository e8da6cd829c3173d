package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrCartLineNotFound = errors.New("cart line not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrLinesUnresolved  = errors.New("cart lines unresolved")
	ErrTransitionDenied = errors.New("status transition denied")
	ErrSerialization    = errors.New("transaction serialization failure")
)

type GormRepo struct {
	DB *gorm.DB

	// TxOptions applies to every multi-statement write. Production wiring
	// uses serializable isolation so checkout cannot interleave with cart
	// edits; tests on sqlite leave it nil.
	TxOptions *sql.TxOptions
}

func New(gdb *gorm.DB) *GormRepo {
	return &GormRepo{
		DB:        gdb,
		TxOptions: &sql.TxOptions{Isolation: sql.LevelSerializable},
	}
}

func (r *GormRepo) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if r.TxOptions != nil {
		return r.DB.WithContext(ctx).Transaction(fn, r.TxOptions)
	}
	return r.DB.WithContext(ctx).Transaction(fn)
}

type sqlStater interface {
	SQLState() string
}

// translate maps driver-level failures onto repo sentinels. Serialization
// failures and deadlocks abort the transaction and are retryable by callers.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var code string
	var pqErr *pq.Error
	var st sqlStater
	switch {
	case errors.As(err, &pqErr):
		code = string(pqErr.Code)
	case errors.As(err, &st):
		code = st.SQLState()
	}

	switch code {
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return err
}
