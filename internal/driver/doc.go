// Package driver replays traces against the allocator and checks its results.
//
// Each payload is filled with a byte derived from its trace id. The driver
// verifies alignment, bounds, and overlap on every allocation, checks that
// reallocation preserved the old contents, and checks that the pattern is
// intact before each free. Utilization is the peak sum of live request sizes
// divided by the final heap size.
package driver
