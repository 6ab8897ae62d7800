package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/schema"
)

type signupForm struct{}

func newObservedForm(t *testing.T, c *Collector) *form.Context[signupForm] {
	t.Helper()
	b := schema.NewBuilder[signupForm]().ID("signup")
	b.Field("firstName", schema.MinLength(2))
	b.Field("lastName", schema.MinLength(2))
	s, err := b.Build()
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	ctx, err := form.New(s, nil, form.WithObserver(c.Observer()))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return ctx
}

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, fam := range families {
		out[fam.GetName()] = fam
	}
	return out
}

func value(t *testing.T, families map[string]*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	fam, ok := families[name]
	if !ok {
		t.Fatalf("metric %s not gathered", name)
	}
	for _, m := range fam.GetMetric() {
		if !matches(m, labels) {
			continue
		}
		if m.GetCounter() != nil {
			return m.GetCounter().GetValue()
		}
		return m.GetGauge().GetValue()
	}
	t.Fatalf("metric %s has no series %v", name, labels)
	return 0
}

func matches(m *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, pair := range m.GetLabel() {
		if want, ok := labels[pair.GetName()]; ok {
			if pair.GetValue() != want {
				return false
			}
			found++
		}
	}
	return found == len(labels)
}

func TestCollector_CountsLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New("")
	if err := c.Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}

	ctx := newObservedForm(t, c)
	_ = ctx.SetValue("firstName", "a")
	_ = ctx.SetValue("firstName", "Al")
	_ = ctx.SetValue("bingBong", "x")
	_, _ = ctx.Submit()

	families := gather(t, reg)
	if got := value(t, families, "formbind_mounted_forms", map[string]string{"schema": "signup"}); got != 1 {
		t.Fatalf("mounted forms = %v, want 1", got)
	}
	if got := value(t, families, "formbind_field_changes_total", map[string]string{"field": "firstName", "valid": "false"}); got != 1 {
		t.Fatalf("invalid changes = %v, want 1", got)
	}
	if got := value(t, families, "formbind_field_changes_total", map[string]string{"field": "firstName", "valid": "true"}); got != 1 {
		t.Fatalf("valid changes = %v, want 1", got)
	}
	if got := value(t, families, "formbind_unknown_field_total", map[string]string{"schema": "signup"}); got != 1 {
		t.Fatalf("unknown fields = %v, want 1", got)
	}
	if got := value(t, families, "formbind_submits_total", map[string]string{"outcome": "invalid"}); got != 1 {
		t.Fatalf("invalid submits = %v, want 1", got)
	}
	if got := value(t, families, "formbind_submit_invalid_fields_total", map[string]string{"schema": "signup"}); got != 1 {
		t.Fatalf("invalid fields = %v, want 1", got)
	}

	ctx.Close()
	families = gather(t, reg)
	if got := value(t, families, "formbind_mounted_forms", map[string]string{"schema": "signup"}); got != 0 {
		t.Fatalf("mounted forms after close = %v, want 0", got)
	}
	if got := value(t, families, "formbind_events_total", map[string]string{"kind": "close"}); got != 1 {
		t.Fatalf("close events = %v, want 1", got)
	}
}

func TestCollector_RegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New("test")
	if err := c.Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.Register(reg); err != nil {
		t.Fatalf("second register should reuse series: %v", err)
	}
}
