package credential

import (
	"errors"
	"strings"

	credentialerrors "go-gatepass/internal/credential/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return credentialerrors.ErrCredentialNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return credentialerrors.ErrCredentialAlreadyExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		return credentialerrors.ErrCredentialAlreadyExists
	}

	return err
}
