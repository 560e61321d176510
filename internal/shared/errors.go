package shared

import "errors"

// ErrNoTenant indicates the caller has no resolvable firm association.
// Requests rejected with it never reached the ledger core.
var ErrNoTenant = errors.New("no tenant resolved for caller")
