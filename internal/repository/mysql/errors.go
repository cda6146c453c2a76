package mysql

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"cake-order-service/internal/repository"

	driver "github.com/go-sql-driver/mysql"
)

const errDuplicateEntry = 1062

var duplicateKeyPattern = regexp.MustCompile(`for key '([^']+)'`)

// constraintColumns maps unique index names to the column they guard.
var constraintColumns = map[string]string{
	"uk_orders_order_number": "order_number",
}

// translateError turns driver duplicate-key errors into
// repository.UniqueViolationError and deadline errors into
// repository.ErrTransactionTimeout. Other errors pass through.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var myErr *driver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == errDuplicateEntry {
		constraint := ""
		if m := duplicateKeyPattern.FindStringSubmatch(myErr.Message); len(m) == 2 {
			constraint = m[1]
			// MySQL 8 prefixes the key with the table name.
			if i := strings.LastIndexByte(constraint, '.'); i >= 0 {
				constraint = constraint[i+1:]
			}
		}
		return &repository.UniqueViolationError{
			Constraint: constraint,
			Column:     constraintColumns[constraint],
			Err:        err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(repository.ErrTransactionTimeout, err)
	}
	return err
}
