package validator

import "context"

// Validator is implemented by request bodies. An empty map means the request is valid.
type Validator interface {
	Validate(ctx context.Context) (problems map[string][]string)
}
