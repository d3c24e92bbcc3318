// Package ucdef defines the use case shapes of the service.
package ucdef

import "context"

// UserAction is a synchronous operation triggered by a client request. The
// caller waits for its output; errors are returned to the client.
//
// Examples: CreateAthlete, ListMedals.
type UserAction[I, O any] interface {
	// OperationID returns a unique identifier for the use case.
	OperationID() string

	// Execute executes the use case.
	Execute(ctx context.Context, in I) (O, error)
}

// ManualCommand is an administrative operation run by an operator from the
// command line. Success or failure is reported through the error and logs.
//
// Example: LoadDataset.
type ManualCommand[I any] interface {
	// OperationID returns a unique identifier for the use case.
	OperationID() string

	// Execute executes the manual command.
	Execute(ctx context.Context, in I) error
}
