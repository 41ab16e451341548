package models

import (
	"fmt"
	"strings"
)

// ErrorConfig is fatal: required connection settings are absent
type ErrorConfig struct {
	Missing []string
}

func (e *ErrorConfig) Error() string {
	return fmt.Sprintf("missing required Odoo config fields: %s", strings.Join(e.Missing, ", "))
}

// ErrorAuth is fatal: the remote rejected the handshake or the credentials
type ErrorAuth struct {
	Reason string
}

func (e *ErrorAuth) Error() string {
	return fmt.Sprintf("odoo authentication failed: %s", e.Reason)
}

// ErrorTransaction marks a failed step of the stock-movement sequence. The
// documents created by earlier steps are left as-is on the Odoo side.
type ErrorTransaction struct {
	Step string
	Err  error
}

func (e *ErrorTransaction) Error() string {
	return fmt.Sprintf("stock move failed at step %q: %v", e.Step, e.Err)
}

func (e *ErrorTransaction) Cause() error {
	return e.Err
}
