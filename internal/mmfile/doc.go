// Package mmfile provides read-only access to input files, memory-mapped
// where the platform supports it. Decoders copy what they keep, so a mapping
// can be released as soon as parsing returns.
package mmfile
