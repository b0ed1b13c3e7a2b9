package report

import (
	"github.com/prometheus/client_golang/prometheus"

	"docScanGuard/internal/model"
)

// RenderMetrics 以 node_exporter textfile 格式写出本次扫描的统计
func RenderMetrics(report *model.Report, path string) error {
	reg := prometheus.NewRegistry()

	documents := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "docscan",
		Name:      "documents",
		Help:      "Scanned documents by status.",
	}, []string{"status"})
	risks := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "docscan",
		Name:      "documents_by_risk",
		Help:      "Scanned documents by risk level.",
	}, []string{"risk"})
	hits := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "docscan",
		Name:      "indicator_hits",
		Help:      "Documents matching each indicator.",
	}, []string{"indicator"})
	failures := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "docscan",
		Name:      "extraction_failures",
		Help:      "Documents whose text could not be extracted.",
	})
	generated := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "docscan",
		Name:      "last_scan_timestamp_seconds",
		Help:      "Unix time the report was generated.",
	})

	reg.MustRegister(documents, risks, hits, failures, generated)

	for _, s := range model.Statuses {
		documents.WithLabelValues(string(s)).Set(float64(report.StatusCount(s)))
	}
	for _, l := range model.RiskLevels {
		risks.WithLabelValues(string(l)).Set(float64(report.RiskCount(l)))
	}
	for id, n := range report.IndicatorHits() {
		hits.WithLabelValues(id).Set(float64(n))
	}
	failures.Set(float64(len(report.Failures())))
	generated.Set(float64(report.GeneratedAt().Unix()))

	return prometheus.WriteToTextfile(path, reg)
}
