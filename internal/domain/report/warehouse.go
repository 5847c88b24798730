package report

import "context"

// Warehouse is the read surface of the analytics warehouse
type Warehouse interface {
	// Query returns rows as column→value maps
	Query(ctx context.Context, query string, args ...any) ([]map[string]any, error)
	// Select scans rows into dest, a pointer to a slice of typed rows
	Select(ctx context.Context, dest any, query string, args ...any) error
}

// Table qualifies a warehouse table with the client dataset. Callers must
// pass a dataset obtained from the client registry.
func Table(dataset, table string) string {
	return dataset + "." + table
}
