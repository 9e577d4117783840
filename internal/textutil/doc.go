// Package textutil provides filename sanitization and display-title
// derivation for episode files.
package textutil
