// Command s3poller reports the latest object under an S3 prefix.
package main

import "github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/internal/cli"

func main() {
	cli.Execute()
}
