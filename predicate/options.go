package predicate

// Option applies a configuration option to a new Registry.
type Option func(*registryOptions)

type registryOptions struct {
	builtins bool
	extra    []Predicate
}

// WithBuiltins controls whether the builtin predicates are preloaded.
func WithBuiltins(enabled bool) Option {
	return func(o *registryOptions) {
		o.builtins = enabled
	}
}

// WithPredicates preloads additional predicates, overriding builtins on
// name collision.
func WithPredicates(ps ...Predicate) Option {
	return func(o *registryOptions) {
		o.extra = append(o.extra, ps...)
	}
}
