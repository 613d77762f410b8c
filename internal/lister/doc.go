// Package lister implements the storage backends a poller lists buckets through.
//
// Each backend turns its SDK's paged listing into pollertypes.Page values,
// answers bucket existence checks and resolves retrieval URLs for keys.
package lister
