// Package workflow advances queue items through the dubbing stages in
// order, persisting every status transition so interrupted runs can
// resume from the last resting status.
package workflow
