package resolver

import (
	"context"
	"iter"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/pollertypes"
)

// DefaultMaxPages is the number of listing pages scanned before a resolution
// settles for the best result found so far.
const DefaultMaxPages = 100

// Lister is the listing primitive a Pager walks.
type Lister interface {
	// ListObjects returns the first page of the listing of prefix in bucket.
	ListObjects(ctx context.Context, bucket, prefix string) (*pollertypes.Page, error)

	// ListNextPage returns the page following a truncated page.
	ListNextPage(ctx context.Context, page *pollertypes.Page) (*pollertypes.Page, error)
}

// Pager produces the listing pages of one prefix. It is single use: a second
// iteration yields nothing.
type Pager struct {
	lister   Lister
	bucket   string
	prefix   string
	maxPages int

	fetched  int
	capped   bool
	consumed bool
}

// NewPager creates a Pager bounded at maxPages pages.
// A non-positive maxPages selects DefaultMaxPages.
func NewPager(lister Lister, bucket, prefix string, maxPages int) *Pager {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Pager{
		lister:   lister,
		bucket:   bucket,
		prefix:   prefix,
		maxPages: maxPages,
	}
}

// Pages returns the lazy page sequence. The next page is requested only after
// the consumer has handled the current one. The sequence ends after the first
// page that is not truncated, after maxPages pages, or after an error, which is
// yielded with a nil page.
func (p *Pager) Pages(ctx context.Context) iter.Seq2[*pollertypes.Page, error] {
	return func(yield func(*pollertypes.Page, error) bool) {
		if p.consumed {
			return
		}
		p.consumed = true

		var page *pollertypes.Page
		for {
			if p.fetched == p.maxPages {
				p.capped = page != nil && page.Truncated
				return
			}
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			var err error
			if page == nil {
				page, err = p.lister.ListObjects(ctx, p.bucket, p.prefix)
			} else {
				page, err = p.lister.ListNextPage(ctx, page)
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if page == nil {
				return
			}
			p.fetched++

			if !yield(page, nil) || !page.Truncated {
				return
			}
		}
	}
}

// Fetched returns the number of pages retrieved so far.
func (p *Pager) Fetched() int {
	return p.fetched
}

// Capped reports whether iteration stopped at the page cap while the listing
// was still truncated.
func (p *Pager) Capped() bool {
	return p.capped
}
