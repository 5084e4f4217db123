// Package persist stores client-local catalog state in a SQLite file.
//
// Values live in a single kv table keyed by namespace. The catalog overlay
// (liked and deleted flags, locally created and edited products, filter
// preferences) is JSON-encoded under ProductsNamespace.
//
// Reads are forgiving: a missing row or a value that no longer decodes
// produces an empty overlay so startup never fails on bad local data.
package persist
