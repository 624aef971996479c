package services

import (
	"net/http"

	apperrors "github.com/ymango/ymango/pkg/errors"
)

// Domain errors surfaced by the signup workflow. Callers match them with errors.Is.
var (
	// ErrUserNotFound indicates no account exists for the requested email.
	ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "사용자를 찾을 수 없습니다.", http.StatusNotFound)
	// ErrInvalidVerification covers both an unknown challenge and a wrong code.
	ErrInvalidVerification = apperrors.New("EMAIL_VERIFICATION_INVALID", "이메일 인증 정보가 유효하지 않습니다.", http.StatusBadRequest)
	// ErrEmailNotVerified rejects signup without a verified challenge for the device.
	ErrEmailNotVerified = apperrors.New("EMAIL_NOT_VERIFIED", "이메일이 인증되지 않았습니다.", http.StatusForbidden)
	// ErrDuplicateUser rejects signup for an email that already has an account.
	ErrDuplicateUser = apperrors.New("USER_ALREADY_EXISTS", "이미 존재하는 사용자입니다.", http.StatusConflict)
)
