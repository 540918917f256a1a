package constant

const (
	// Form field carrying the uploaded PDF.
	FORM_FIELD_PDF = "pdf"

	OUTPUT_FILE_SUFFIX = "_con_qr.pdf"

	// Sessions purged by the admin route when no olderThan is given.
	DEFAULT_PURGE_AGE = "24h"
)
