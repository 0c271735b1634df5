// Package storage opens and creates the external locations named by recipe
// inputs and outputs.
//
// A location is a plain filesystem path or a URL. The Router picks a backend
// by URL scheme: no scheme and "file" go to the local filesystem, "http" and
// "https" are read-only, "s3" is served by an S3-compatible object store and
// "mem" by an in-process map.
package storage
