package lenient

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "lenient"

// metrics counts query activity for one configuration.
type metrics struct {
	// traversals counts queries that walked the dependency graph.
	traversals prometheus.Counter

	// fastPath counts queries answered from the precomputed artifact set.
	fastPath prometheus.Counter

	// snapshotLoads counts invocations of the snapshot loader.
	snapshotLoads prometheus.Counter

	// droppedArtifacts counts external artifacts dropped because their
	// file could not be resolved.
	droppedArtifacts prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, configuration string) (*metrics, error) {
	vec := func(name, help string) (*prometheus.CounterVec, error) {
		v := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      name,
			Help:      help,
		}, []string{"configuration"})
		if reg == nil {
			return v, nil
		}
		if err := reg.Register(v); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return nil, fmt.Errorf("register metric %s: %w", name, err)
			}
			existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, fmt.Errorf("register metric %s: existing collector is %T", name, already.ExistingCollector)
			}
			return existing, nil
		}
		return v, nil
	}

	m := &metrics{}
	for _, c := range []struct {
		dst  *prometheus.Counter
		name string
		help string
	}{
		{&m.traversals, "traversals_total", "Queries that traversed the dependency graph."},
		{&m.fastPath, "fast_path_total", "Queries answered without traversing the dependency graph."},
		{&m.snapshotLoads, "snapshot_loads_total", "Invocations of the graph snapshot loader."},
		{&m.droppedArtifacts, "dropped_artifacts_total", "External artifacts dropped because their file could not be resolved."},
	} {
		v, err := vec(c.name, c.help)
		if err != nil {
			return nil, err
		}
		*c.dst = v.WithLabelValues(configuration)
	}
	return m, nil
}
