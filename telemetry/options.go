package telemetry

import "github.com/prometheus/client_golang/prometheus"

type options struct {
	register         prometheus.Registerer
	additionalLabels []string
}

func defaultOptions() options {
	return options{
		register:         prometheus.DefaultRegisterer,
		additionalLabels: []string{},
	}
}

// Option customizes where metrics are registered and which labels they carry.
type Option func(*options)

func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		o.register = r
	}
}

// WithAdditionalLabels adds boolean labels derived from query parameters of the same name.
func WithAdditionalLabels(additionalLabels []string) Option {
	return func(o *options) {
		o.additionalLabels = additionalLabels
	}
}

// Registerer resolves the registerer selected by options.
func Registerer(opts ...Option) prometheus.Registerer {
	return apply(opts).register
}

// AdditionalLabels resolves the additional labels selected by options.
func AdditionalLabels(opts ...Option) []string {
	return apply(opts).additionalLabels
}

func apply(list []Option) options {
	opts := defaultOptions()
	for _, option := range list {
		option(&opts)
	}
	return opts
}
