package repository

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/crmdesk/crmdesk/internal/domain"
)

// translate maps storage errors onto domain errors and annotates the rest.
func translate(err error, dup error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case dup != nil && isDuplicateKey(err):
		return dup
	default:
		return errors.Wrap(err, msg)
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}
