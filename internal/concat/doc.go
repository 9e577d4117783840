// Package concat assembles synthesized clips into the final dubbed
// episode, restoring the source timeline's pauses within configured
// bounds and exporting MP3 through ffmpeg.
package concat
