// Package testsupport provides shared fixtures for package tests:
// temp-dir configs, queue stores, stubbed external binaries, and
// synthetic WAV generation.
package testsupport
