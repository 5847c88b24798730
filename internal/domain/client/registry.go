package client

import (
	"regexp"
	"sort"

	"github.com/rooted/analytics/internal/domain/shared"
)

var datasetPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Override replaces selected fields of a built-in client or registers a new one.
// Zero values leave the built-in value untouched.
type Override struct {
	ID                string
	Name              string
	Dataset           string
	HasEmail          *bool
	MonthlyTarget     float64
	MonthlyROASTarget float64
	Currency          string
	CurrencySymbol    string
}

// Registry is a read-only lookup of client configurations.
// It is safe for concurrent use since it is never mutated after NewRegistry.
type Registry struct {
	clients map[string]Config
	ids     []string
}

// NewRegistry builds the registry from the built-in clients plus overrides
func NewRegistry(overrides ...Override) (*Registry, error) {
	clients := make(map[string]Config)
	for _, c := range builtins() {
		clients[c.ID] = c
	}

	for _, o := range overrides {
		if o.ID == "" {
			return nil, shared.ErrInvalidInput.WithDetails("client override without id")
		}
		c, ok := clients[o.ID]
		if !ok {
			c = Config{ID: o.ID, Name: o.ID, Dataset: o.ID + "_analytics", HasEmail: true}
		}
		if o.Name != "" {
			c.Name = o.Name
		}
		if o.Dataset != "" {
			c.Dataset = o.Dataset
		}
		if o.HasEmail != nil {
			c.HasEmail = *o.HasEmail
		}
		if o.MonthlyTarget > 0 {
			c.Dashboard.MonthlyRevenueTargets = flatTargets(o.MonthlyTarget)
		}
		if o.MonthlyROASTarget > 0 {
			c.Dashboard.MonthlyROASTarget = o.MonthlyROASTarget
		}
		if o.Currency != "" {
			c.Dashboard.Currency = o.Currency
		}
		if o.CurrencySymbol != "" {
			c.Dashboard.CurrencySymbol = o.CurrencySymbol
		}
		clients[o.ID] = c
	}

	ids := make([]string, 0, len(clients))
	for id, c := range clients {
		if !datasetPattern.MatchString(c.Dataset) {
			return nil, shared.ErrInvalidInput.WithDetails("invalid dataset name for client " + id)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return &Registry{clients: clients, ids: ids}, nil
}

// MustNewRegistry is NewRegistry without overrides; the built-ins are always valid
func MustNewRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns a copy of the client configuration
func (r *Registry) Get(id string) (Config, error) {
	c, ok := r.clients[id]
	if !ok {
		return Config{}, shared.ErrUnknownClient.WithDetails("Client configuration not found for: " + id)
	}
	return c.clone(), nil
}

// IsValid reports whether the client exists
func (r *Registry) IsValid(id string) bool {
	_, ok := r.clients[id]
	return ok
}

// Dataset returns the warehouse dataset of the client
func (r *Registry) Dataset(id string) (string, error) {
	c, ok := r.clients[id]
	if !ok {
		return "", shared.ErrUnknownClient.WithDetails("Client configuration not found for: " + id)
	}
	return c.Dataset, nil
}

// IsKnownDataset reports whether any client owns the dataset
func (r *Registry) IsKnownDataset(dataset string) bool {
	for _, c := range r.clients {
		if c.Dataset == dataset {
			return true
		}
	}
	return false
}

// IDs returns the sorted client ids
func (r *Registry) IDs() []string {
	return append([]string(nil), r.ids...)
}

// List returns all clients sorted by id
func (r *Registry) List() []Config {
	out := make([]Config, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.clients[id].clone())
	}
	return out
}
