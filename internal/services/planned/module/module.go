// Package module wires the planned observations pipeline from config
package module

import (
	"plannedobs/internal/adapters/archive/mast"
	"plannedobs/internal/adapters/tablecsv"
	"plannedobs/internal/modkit"
	dom "plannedobs/internal/services/planned/domain"
	"plannedobs/internal/services/planned/service"
)

// Ports defines the planned module ports
type Ports struct {
	Runner dom.RunnerPort
}

// Module implements modkit.Module for the pipeline
type Module struct {
	deps  modkit.Deps
	cfg   dom.Config
	ports Ports
}

// New reads config from deps.Cfg, applies overrides, validates the result and
// wires the archive client and CSV store into the service
func New(deps modkit.Deps, overrides ...Override) (*Module, error) {
	cfg := FromConfig(deps.Cfg)
	for _, o := range overrides {
		o(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	archive := mast.NewClient(mast.Options{
		BaseURL:      cfg.ArchiveURL,
		Service:      cfg.ArchiveService,
		Timeout:      cfg.ArchiveTimeout,
		MaxBodyBytes: cfg.ArchiveMaxBody,
	})
	svc := service.New(archive, tablecsv.NewStore(), cfg)

	deps.Log.Debug().
		Str("service", cfg.ArchiveService).
		Int64("threshold", cfg.Threshold).
		Strs("census", cfg.CensusColumns).
		Msg("planned module wired")

	return &Module{deps: deps, cfg: cfg, ports: Ports{Runner: svc}}, nil
}

// Build adapts New to modkit.Builder
func Build(overrides ...Override) modkit.Builder {
	return func(d modkit.Deps) (modkit.Module, error) {
		m, err := New(d, overrides...)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

// Name returns the module name
func (m *Module) Name() string { return "planned" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Config returns the validated config the module runs with
func (m *Module) Config() dom.Config { return m.cfg }
