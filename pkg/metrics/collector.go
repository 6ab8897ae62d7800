// Package metrics exports form lifecycle events as Prometheus series.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-formbind/pkg/form"
)

// DefaultNamespace prefixes every series.
const DefaultNamespace = "formbind"

// Collector turns form.Events into counters and a live-form gauge.
type Collector struct {
	events        *prometheus.CounterVec
	changes       *prometheus.CounterVec
	submits       *prometheus.CounterVec
	invalidFields *prometheus.CounterVec
	unknownFields *prometheus.CounterVec
	mounted       *prometheus.GaugeVec
}

// New builds a Collector whose series live under namespace.
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Form lifecycle events by kind.",
		}, []string{"schema", "kind"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_changes_total",
			Help:      "Field value changes by validation outcome.",
		}, []string{"schema", "field", "valid"}),
		submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submits_total",
			Help:      "Submit attempts by outcome.",
		}, []string{"schema", "outcome"}),
		invalidFields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submit_invalid_fields_total",
			Help:      "Fields reported invalid by failed submits.",
		}, []string{"schema"}),
		unknownFields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_field_total",
			Help:      "Lookups of names the schema does not declare.",
		}, []string{"schema"}),
		mounted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mounted_forms",
			Help:      "Form contexts mounted and not yet closed.",
		}, []string{"schema"}),
	}
}

// Register adds every series to reg. Already registered series are reused
// so a process can build more than one handler over the same registry.
func (c *Collector) Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, col := range c.collectors() {
		if err := reg.Register(col); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{c.events, c.changes, c.submits, c.invalidFields, c.unknownFields, c.mounted}
}

// Observer returns a form.Observer feeding this collector.
func (c *Collector) Observer() form.Observer {
	return c.observe
}

func (c *Collector) observe(evt form.Event) {
	c.events.WithLabelValues(evt.Schema, string(evt.Kind)).Inc()
	switch evt.Kind {
	case form.EventMount:
		c.mounted.WithLabelValues(evt.Schema).Inc()
	case form.EventClose:
		c.mounted.WithLabelValues(evt.Schema).Dec()
	case form.EventChange:
		c.changes.WithLabelValues(evt.Schema, evt.Field, boolLabel(evt.Valid)).Inc()
	case form.EventUnknownField:
		c.unknownFields.WithLabelValues(evt.Schema).Inc()
	case form.EventSubmit:
		if evt.Valid {
			c.submits.WithLabelValues(evt.Schema, "valid").Inc()
			return
		}
		c.submits.WithLabelValues(evt.Schema, "invalid").Inc()
		c.invalidFields.WithLabelValues(evt.Schema).Add(float64(evt.Invalid))
	}
}

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
