// Package sanitizer normalizes user supplied text before validation and
// storage.
//
// All functions are idempotent. Invalid input yields an empty string rather
// than an error; validators reject the empty value afterwards.
package sanitizer
