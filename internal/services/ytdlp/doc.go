// Package ytdlp wraps the yt-dlp CLI for fetching YouTube episode audio
// as MP3 input to the pipeline.
package ytdlp
