package usecases

import "github.com/just-nibble/versioncontrol/internal/repository"

// repositoryQuery builds a query from alternating field names and values.
func repositoryQuery(pairs ...any) repository.Query {
	q := repository.Query{Conditions: map[string]any{}}
	for i := 0; i+1 < len(pairs); i += 2 {
		q.Conditions[pairs[i].(string)] = pairs[i+1]
	}
	return q
}
