package lookup

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/models"
)

var (
	// ErrInvalidPlate means the plate was empty after normalization.
	ErrInvalidPlate = errors.New("invalid plate")

	// ErrAllSourcesExhausted means every source was skipped or failed.
	// Callers fall back to manual data entry.
	ErrAllSourcesExhausted = errors.New("all lookup sources exhausted")
)

// SourceStatus is the operator-facing view of one source.
type SourceStatus struct {
	Name      string `json:"fuente"`
	Used      int    `json:"usados"`
	Limit     int    `json:"limite"`
	Available int    `json:"disponibles"`
	Active    bool   `json:"activa"`
}

// Engine resolves plates by walking the registered sources in priority
// order. Sources are tried strictly sequentially: the goal is quota
// preservation and deterministic cost ordering, not latency.
type Engine struct {
	registry *Registry
	quotas   *QuotaTracker
	log      *zap.SugaredLogger
}

// NewEngine creates a resolution engine over a registry and quota tracker.
func NewEngine(registry *Registry, quotas *QuotaTracker, log *zap.SugaredLogger) *Engine {
	return &Engine{registry: registry, quotas: quotas, log: log}
}

// Registry exposes the source chain for operator toggles.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Quotas exposes the tracker for the manual reset escape hatch.
func (e *Engine) Quotas() *QuotaTracker {
	return e.quotas
}

// Resolve tries each source in priority order until one succeeds. Inactive
// and quota-exhausted sources are skipped; timeouts, transport errors and
// non-2xx responses advance to the next source. The first success is
// returned immediately and charged against that source's daily quota.
func (e *Engine) Resolve(ctx context.Context, plate string) (*VehicleData, error) {
	normalized := models.NormalizePlate(plate)
	if normalized == "" {
		return nil, ErrInvalidPlate
	}

	used, err := e.quotas.LoadCounters(ctx)
	if err != nil {
		return nil, err
	}

	for _, entry := range e.registry.Entries() {
		name := entry.Source.Name()

		if !entry.Active {
			e.log.Debugw("lookup source inactive, skipping", "source", name)
			continue
		}
		if entry.DailyLimit > 0 && used[name] >= entry.DailyLimit {
			e.log.Infow("lookup source at daily quota, skipping",
				"source", name, "used", used[name], "limit", entry.DailyLimit)
			continue
		}

		srcCtx := ctx
		cancel := context.CancelFunc(func() {})
		if entry.Timeout > 0 {
			srcCtx, cancel = context.WithTimeout(ctx, entry.Timeout)
		}
		data, err := entry.Source.Resolve(srcCtx, normalized)
		cancel()

		if err != nil {
			e.log.Warnw("lookup source failed, trying next",
				"source", name, "plate", normalized, "error", err)
			continue
		}

		data.Source = name
		data.Plate = normalized

		if err := e.quotas.Increment(ctx, name); err != nil {
			// The lookup already succeeded; a counter write failure only
			// risks one extra call tomorrow.
			e.log.Warnw("failed to persist quota counter", "source", name, "error", err)
		}

		e.log.Infow("plate resolved", "source", name, "plate", normalized,
			"make", data.Make, "model", data.Model)
		return data, nil
	}

	return nil, ErrAllSourcesExhausted
}

// Status reports per-source usage for operator visibility. Inactive and
// quota-exhausted sources are indistinguishable to Resolve; this is where
// the distinction matters.
func (e *Engine) Status(ctx context.Context) ([]SourceStatus, error) {
	used, err := e.quotas.LoadCounters(ctx)
	if err != nil {
		return nil, err
	}

	entries := e.registry.Entries()
	out := make([]SourceStatus, 0, len(entries))
	for _, entry := range entries {
		name := entry.Source.Name()
		available := entry.DailyLimit - used[name]
		if available < 0 {
			available = 0
		}
		out = append(out, SourceStatus{
			Name:      name,
			Used:      used[name],
			Limit:     entry.DailyLimit,
			Available: available,
			Active:    entry.Active,
		})
	}
	return out, nil
}
