package modkit

// Module is the common surface of a wired module
// keep this tiny so callers only see ports
type Module interface {
	// Ports returns a module specific port set for callers to pick from
	Ports() any

	// Name returns the module name
	Name() string
}

// Builder constructs a Module from shared deps
type Builder func(Deps) (Module, error)
