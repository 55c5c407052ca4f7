package payrollerrors

import (
	"net/http"

	"go-staffadmin/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"period_start must be before or equal period_end",
		http.StatusBadRequest,
	)
	ErrInvalidRunType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid run type",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidSalary = apperror.New(
		apperror.CodeInvalidInput,
		"monthly salary must be positive",
		http.StatusBadRequest,
	)
	ErrEmptyRoster = apperror.New(
		apperror.CodeNotFound,
		"no eligible staff members for this period; nothing was generated",
		http.StatusNotFound,
	)
	ErrDuplicatePeriod = apperror.New(
		apperror.CodeConflict,
		"payroll already exists for this staff/period/run type; no records were written",
		http.StatusConflict,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll record not found",
		http.StatusNotFound,
	)
	ErrApproveOnlyDraft = apperror.New(
		apperror.CodeInvalidState,
		"payroll can only be approved while status is DRAFT",
		http.StatusBadRequest,
	)
	ErrPayOnlyApproved = apperror.New(
		apperror.CodeInvalidState,
		"payroll can only be marked paid while status is APPROVED",
		http.StatusBadRequest,
	)
	ErrVoidPaid = apperror.New(
		apperror.CodeInvalidState,
		"a PAID payroll cannot be voided",
		http.StatusBadRequest,
	)
	ErrPersistenceFailure = apperror.New(
		apperror.CodeInternalError,
		"storage failure while writing the payroll batch; the batch was rolled back and nothing was written",
		http.StatusInternalServerError,
	)
)
