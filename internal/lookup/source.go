package lookup

import "context"

// VehicleData is the canonical shape every lookup source normalizes its
// response into.
type VehicleData struct {
	Source string `json:"fuente"`
	Plate  string `json:"patente"`
	Make   string `json:"marca"`
	Model  string `json:"modelo"`
	Year   int    `json:"anio"`
	Engine string `json:"motor,omitempty"`
}

// Source is a third-party plate-to-vehicle-data provider. Implementations
// own their endpoint, credentials and response parsing; the engine owns
// ordering, quotas and timeouts.
type Source interface {
	// Name returns the unique name for this source (e.g. "boostr")
	Name() string

	// Resolve looks up a normalized plate. Transport errors, non-2xx
	// responses and context deadline hits are all returned as plain errors;
	// the engine treats every error as recoverable and moves on.
	Resolve(ctx context.Context, plate string) (*VehicleData, error)
}
