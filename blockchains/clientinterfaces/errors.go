package clientinterfaces

import (
	"fmt"
)

// ConnectivityError is when the benchmark cannot reach the node, either
// while dialling or when the node does not answer the liveness probe.
type ConnectivityError struct {
	Endpoint string // Endpoint that was dialled
	Err      error  // The underlying error
}

// InsufficientAccountsError occurs when the node exposes fewer accounts than
// the benchmark needs to transfer between.
type InsufficientAccountsError struct {
	Have int // Accounts exposed by the node or configured keys
	Want int // Minimum required
}

// Error message for the connectivity error
func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot connect to node at %s, make sure it is running: %s", e.Endpoint, e.Err.Error())
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// Error message when the node has too few accounts
func (e *InsufficientAccountsError) Error() string {
	return fmt.Sprintf("insufficient accounts: node has %d accounts, at least %d are required", e.Have, e.Want)
}
