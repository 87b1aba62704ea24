// Package analysis summarizes autoplay sessions.
//
// A session is the list of elapsed times produced by playing every
// direction combination of a fixed set of ants. [Summarize] reduces it to
// the best and worst runs plus basic statistics; [Histogram] buckets the
// elapsed times for plotting.
package analysis
