// Package segment defines the diarized transcript record shared by every
// pipeline stage and the JSON transcript files kept in the work directory.
package segment
