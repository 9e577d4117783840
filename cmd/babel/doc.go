// Command babel queues podcast episodes and runs them through the
// transcribe, reference, translate, synthesize, and concat stages to
// produce a Chinese dubbed MP3.
package main
