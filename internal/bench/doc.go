// Package bench drives the parallel merge sort the way a benchmark harness
// would: it builds a scrambled permutation of consecutive integers, times
// repeated sorts under each spawn backend, verifies the output and
// summarises the timings.
//
// Inputs are deterministic. FillArray and Scramble use a fixed linear
// congruential generator, so two runs with the same size see the same
// sequence of inputs regardless of backend, threshold or processor count.
//
// A Sweep repeats a Runner over a grid of thresholds and processor counts;
// its rows can be rendered as a table, CSV or JSON, exported as Prometheus
// metrics, or persisted by the store package.
package bench
