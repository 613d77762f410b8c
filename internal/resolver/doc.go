// Package resolver finds the most recently modified object under a key prefix.
//
// Listing pages are produced lazily by a Pager, which owns the termination
// policy (the page cap and the truncation flag). The Resolver folds over the
// pages tracking the running latest object and turns the outcome into a
// PackageRevision. Storage faults are kept on the internal Resolution value
// and only reach callers of the public revision operations as a log entry.
package resolver
