// Package translate renders English transcript segments into colloquial
// Chinese through an OpenAI-compatible chat completions API, batching
// numbered lines per request and retrying transient failures with
// exponential backoff.
package translate
