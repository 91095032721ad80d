package credentialerrors

import (
	"net/http"

	"go-gatepass/internal/shared/apperror"
)

var (
	ErrCredentialNotFound = apperror.New(
		apperror.CodeNotFound,
		"Credential not found",
		http.StatusNotFound,
	)
	ErrCredentialAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Credential with the same ID already exists",
		http.StatusConflict,
	)
	ErrInvalidKind = apperror.New(
		apperror.CodeInvalidInput,
		"Kind must be employee or vehicle",
		http.StatusBadRequest,
	)
	ErrInvalidExpiryDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid expiry_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidEmail = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid email format",
		http.StatusBadRequest,
	)
	ErrEmptySearchQuery = apperror.New(
		apperror.CodeInvalidInput,
		"Search query must not be empty",
		http.StatusBadRequest,
	)
	ErrInvalidSearchField = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown search field",
		http.StatusBadRequest,
	)
)
