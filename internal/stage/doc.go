// Package stage defines the handler contract pipeline stages implement
// and the health records the workflow manager aggregates from them.
package stage
