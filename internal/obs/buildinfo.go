package obs

import "github.com/prometheus/client_golang/prometheus"

// RegisterBuildInfo publishes a build_info gauge with a constant value of 1
// and version/commit labels.
func RegisterBuildInfo(reg prometheus.Registerer, version, commit string) {
	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Conference service build information.",
		},
		[]string{"version", "commit"},
	)
	reg.MustRegister(buildInfo)
	buildInfo.WithLabelValues(version, commit).Set(1)
}
