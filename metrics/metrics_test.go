package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/apepkuss/wasmedge-wasi-for-quark/resource"
)

func TestNewMetrics_Registration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.OnResourceEvent(resource.Event{Type: resource.EventCreated, Kind: resource.KindDir})
	m.ObserveRun("ok", time.Second)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{
		"wasihost_descriptors_opened_total",
		"wasihost_descriptors_open",
		"wasihost_runs_total",
		"wasihost_run_duration_seconds",
	} {
		if !found[name] {
			t.Errorf("expected %s in gathered metrics", name)
		}
	}
}

func TestNewMetrics_DoubleRegistration_Panics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on double registration")
		}
	}()
	NewMetrics(reg)
}

func TestMetrics_TableObserver(t *testing.T) {
	t.Parallel()

	m := NewMetrics(prometheus.NewRegistry())
	table := resource.NewTable()
	table.Subscribe(m)

	fd, err := table.Push(resource.Entry{Kind: resource.KindFile})
	if err != nil {
		t.Fatal(err)
	}
	table.Push(resource.Entry{Kind: resource.KindFile})
	table.InsertAt(0, resource.Entry{Kind: resource.KindStdio})

	if got := testutil.ToFloat64(m.DescriptorsOpen.WithLabelValues("file")); got != 2 {
		t.Fatalf("open files = %v, want 2", got)
	}

	if err := table.Remove(fd); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(m.DescriptorsOpen.WithLabelValues("file")); got != 1 {
		t.Fatalf("open files = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DescriptorsClosed.WithLabelValues("file")); got != 1 {
		t.Fatalf("closed files = %v, want 1", got)
	}

	table.Close()
	if got := testutil.ToFloat64(m.DescriptorsOpen.WithLabelValues("stdio")); got != 0 {
		t.Fatalf("open stdio = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.DescriptorsOpened.WithLabelValues("stdio")); got != 1 {
		t.Fatalf("opened stdio = %v, want 1", got)
	}
}
