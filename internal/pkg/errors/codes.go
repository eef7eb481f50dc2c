package errors

import "net/http"

// CodeInvalidInput is the generic bad-argument code (config validation,
// malformed CLI flags).
const CodeInvalidInput = "INVALID_INPUT"

// §7 fatal/propagating error kinds. Stage-local recoverable errors (parse,
// geometry, PIP-miss, enrichment) are logged and counted; they never
// surface as an AppError (only what aborts a run does).
var (
	ErrConfigInvalid = New(
		"CONFIG_INVALID",
		"configuration failed validation",
		http.StatusUnprocessableEntity,
	)

	ErrPBFOpen = New(
		"PBF_OPEN_FAILED",
		"could not open the OSM extract file",
		http.StatusBadRequest,
	)

	ErrBackendUnreachable = New(
		"BACKEND_UNREACHABLE",
		"search backend did not respond",
		http.StatusBadGateway,
	)

	ErrBackendFatal = New(
		"BACKEND_FATAL",
		"search backend rejected the request",
		http.StatusBadGateway,
	)

	ErrRunCanceled = New(
		"RUN_CANCELED",
		"ingest run was canceled",
		http.StatusInternalServerError,
	)
)
