// Package metrics exposes conversion run metrics behind a Recorder interface.
//
// Components take a Recorder and default to NoopRecorder, so metrics stay
// optional without nil checks at call sites. PrometheusRecorder registers the
// collectors on a registry; WriteTextfile dumps that registry in the node
// exporter textfile format for batch runs that have no scrape endpoint.
package metrics
