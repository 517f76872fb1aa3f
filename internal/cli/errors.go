package cli

import (
	"errors"

	"github.com/bomview/bomview/internal/memo"
	"github.com/bomview/bomview/internal/session"
	"github.com/bomview/bomview/internal/sheet"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Workspace errors
	ErrWorkspaceNotFound = "WORKSPACE_NOT_FOUND"
	ErrConfigInvalid     = "CONFIG_INVALID"
	ErrDuplicateName     = "DUPLICATE_NAME"

	// Tree errors
	ErrNoTree       = "NO_TREE"
	ErrNodeNotFound = "NODE_NOT_FOUND"
	ErrPartNotFound = "PART_NOT_IN_SHEET"

	// Media errors
	ErrNoMedia     = "NO_MEDIA"
	ErrFileMissing = "FILE_MISSING"
	ErrDestExists  = "DEST_EXISTS"
	ErrOpenFailed  = "OPEN_FAILED"

	// Memo errors
	ErrEmptyMemo = "EMPTY_MEMO"

	// File errors
	ErrFileWriteError = "FILE_WRITE_ERROR"
	ErrDatabaseError  = "DATABASE_ERROR"

	// Input errors
	ErrInvalidInput         = "INVALID_INPUT"
	ErrMissingArgument      = "MISSING_ARGUMENT"
	ErrConfirmationRequired = "CONFIRMATION_REQUIRED"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnPartNotInSheet = "PART_NOT_IN_SHEET"
	WarnNoMatch        = "NO_MATCHING_NODE"
	WarnNoMedia        = "NO_MEDIA"
	WarnCopyFailed     = "COPY_FAILED"
	WarnScanAnomaly    = "SCAN_ANOMALY"
	WarnTreeProblem    = "TREE_PROBLEM"
	WarnMemoReset      = "MEMO_RESET"
)

// errInvalidInput marks bad flag or argument values.
var errInvalidInput = errors.New("invalid input")

var errorCodes = []struct {
	target     error
	code       string
	suggestion string
}{
	{session.ErrNodeNotFound, ErrNodeNotFound, "Run 'bomv tree' to see part keys"},
	{session.ErrNoMedia, ErrNoMedia, "Switch modes with 'bomv mode <kind>' or add the file and run 'bomv scan'"},
	{session.ErrFileMissing, ErrFileMissing, "Run 'bomv scan' to refresh the media index"},
	{session.ErrNoTree, ErrNoTree, "Check the Part No and NextPart columns of the spreadsheet"},
	{session.ErrDestExists, ErrDestExists, ""},
	{memo.ErrEmptyMemo, ErrEmptyMemo, ""},
	{sheet.ErrNotFound, ErrPartNotFound, ""},
	{errInvalidInput, ErrInvalidInput, ""},
}

// classifyError maps an error to its stable code and a suggestion.
func classifyError(err error) (string, string) {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.target) {
			return ec.code, ec.suggestion
		}
	}
	return ErrInternal, ""
}

// fail reports err with the code its sentinel maps to.
func fail(err error) error {
	code, suggestion := classifyError(err)
	return handleError(code, err, suggestion)
}
