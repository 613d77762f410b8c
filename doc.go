// Package s3poller answers the questions a package-material poller asks of an
// S3 bucket: is the bucket reachable, does a key prefix hold any objects, and
// which object under the prefix was modified last.
//
// A Poller is built over a storage backend, either AWS S3 or a MinIO server:
//
//	poller, err := s3poller.New(ctx,
//	    s3poller.WithRegion("eu-west-1"),
//	    s3poller.WithLogger(slog.Default()),
//	)
//	if err != nil {
//	    return err
//	}
//
//	rev, err := poller.LatestRevision(ctx, config.NewPackage("builds/"), config.NewRepository("artifacts"))
//
// The latest object is found by scanning every listing page of the prefix, up
// to a cap of 100 pages by default. When the cap stops a listing that still has
// pages left, the result is the latest object among the pages scanned.
//
// Storage faults during revision lookup never reach the caller: the empty
// revision is returned and the fault is logged. Connectivity checks report
// faults as failed CheckResults carrying the fault message.
package s3poller
