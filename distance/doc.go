// Package distance provides mask-aware distance functions between entries.
//
// # Supported Metrics
//
//   - MetricEuclidean: Euclidean distance (default)
//   - MetricSquaredEuclidean: squared Euclidean distance
//
// Entries without missing components use the vek32 kernels; otherwise only
// the components present in both entries are accumulated.
//
// # Usage
//
//	fn, _ := distance.Provider(distance.MetricEuclidean)
//	d, ok := fn(a, b)
package distance
