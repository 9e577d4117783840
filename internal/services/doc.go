// Package services holds shared plumbing for the external collaborators
// the pipeline shells out to: the sentinel error taxonomy stages use to
// classify failures, and context annotations for correlation logging.
package services
