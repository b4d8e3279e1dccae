package routes

import (
	"log/slog"

	"github.com/specroute/specroute/models"
	"github.com/specroute/specroute/validator"
)

// Option configures a SpecRouter.
type Option func(*SpecRouter)

// WithExtraValidators appends validators to the chain after the baseline
// version validator, in registration order.
func WithExtraValidators(vs ...validator.Validator) Option {
	return func(r *SpecRouter) { r.extraValidators = append(r.extraValidators, vs...) }
}

// WithValidatorNames resolves validators from the named-constructor registry
// and appends them to the chain. Unknown names fail NewSpecRouter.
func WithValidatorNames(names ...string) Option {
	return func(r *SpecRouter) { r.validatorNames = append(r.validatorNames, names...) }
}

// WithModelOptions forwards options to model generation, for example
// models.WithStrictValidation.
func WithModelOptions(opts ...models.Option) Option {
	return func(r *SpecRouter) { r.modelOptions = append(r.modelOptions, opts...) }
}

// WithIncludeGlobs replaces the contract discovery patterns used when the
// router is pointed at a directory. Defaults to **/*.json.
func WithIncludeGlobs(globs ...string) Option {
	return func(r *SpecRouter) { r.includeGlobs = globs }
}

// WithLogger sets the logger for load diagnostics. Nil discards them.
func WithLogger(l *slog.Logger) Option {
	return func(r *SpecRouter) { r.logger = l }
}

// RouteOption sets one override on a route registration.
type RouteOption func(*RouteInfo)

// WithName sets a literal route name. A name factory, when present on any
// tier, takes precedence.
func WithName(name string) RouteOption {
	return func(ri *RouteInfo) { ri.Name = &name }
}

// WithNameFactory sets the function deriving the route name from its path
// and operation at finalization time.
func WithNameFactory(f NameFactory) RouteOption {
	return func(ri *RouteInfo) { ri.NameFactory = f }
}

// WithSummary overrides the contract-derived summary.
func WithSummary(summary string) RouteOption {
	return func(ri *RouteInfo) { ri.Summary = &summary }
}

// WithDescription overrides the contract-derived description.
func WithDescription(desc string) RouteOption {
	return func(ri *RouteInfo) { ri.Description = &desc }
}

// WithResponseDescription overrides the description of the primary response.
func WithResponseDescription(desc string) RouteOption {
	return func(ri *RouteInfo) { ri.ResponseDescription = &desc }
}

// WithTags overrides the contract-derived tags.
func WithTags(tags ...string) RouteOption {
	return func(ri *RouteInfo) { ri.Tags = tags }
}

// WithDeprecated overrides the contract-derived deprecated flag.
func WithDeprecated(deprecated bool) RouteOption {
	return func(ri *RouteInfo) { ri.Deprecated = &deprecated }
}

// WithDependencies sets hooks that run before the handler on every request.
func WithDependencies(deps ...Dependency) RouteOption {
	return func(ri *RouteInfo) { ri.Dependencies = deps }
}

// WithResponses overrides the additional status-code response metadata.
func WithResponses(responses map[int]Response) RouteOption {
	return func(ri *RouteInfo) { ri.Responses = responses }
}
