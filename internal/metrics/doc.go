// Package metrics provides build metrics for mdsite.
//
// Components hold a Recorder and default to NoopRecorder, so callers never
// nil-check before recording:
//
//	b := site.NewBuilder(cfg)                 // NoopRecorder
//	b.SetRecorder(metrics.NewPrometheusRecorder(reg))
//
// PrometheusRecorder registers its collectors on the supplied registry;
// HTTPHandler exposes that registry for scraping (used by the preview server).
package metrics
