// Package mast talks to the archive's invoke endpoint.
//
// Every call is one synchronous POST whose body is the JSON request,
// URL-encoded into a single "request" form field. There is no retry,
// paging or auth; the client timeout bounds each call.
package mast
