package commons

import "errors"

// ErrRecordNotFound is the repository-level miss; services translate it to
// the caller-facing not-found error for the entity they were asked about.
var ErrRecordNotFound = errors.New("record not found")

// ErrDuplicateRecord means a unique constraint rejected an insert. The
// ledger engine treats it as an identifier collision and retries the whole
// atomic unit with a freshly generated identifier.
var ErrDuplicateRecord = errors.New("record already exists")
