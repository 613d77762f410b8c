// Package config describes and reads the package-material properties of an
// S3 poller.
//
// A repository names a bucket; a package names a key prefix inside it. Hosts
// hand both over as property maps in the shape
//
//	{"S3_BUCKET": {"value": "artifacts"}}
//
// and the poller reads them through Properties.
package config

import (
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/errors"
)

// Property keys.
const (
	// KeyBucket is the repository property holding the bucket name
	KeyBucket = "S3_BUCKET"

	// KeyPath is the package property holding the key prefix
	KeyPath = "S3_PATH"
)

// Property is a single configured value.
type Property struct {
	Value string `json:"value"`
}

// Properties maps property keys to their configured values.
type Properties map[string]Property

// Value returns the value of key, or the empty string when it is not set.
func (p Properties) Value(key string) string {
	return p[key].Value
}

// Lookup returns the value of key and whether it was set.
func (p Properties) Lookup(key string) (string, bool) {
	prop, ok := p[key]
	return prop.Value, ok
}

// Set stores value under key and returns p.
func (p Properties) Set(key, value string) Properties {
	p[key] = Property{Value: value}
	return p
}

// NewRepository builds repository properties for bucket.
func NewRepository(bucket string) Properties {
	return Properties{}.Set(KeyBucket, bucket)
}

// NewPackage builds package properties for path.
func NewPackage(path string) Properties {
	return Properties{}.Set(KeyPath, path)
}

// Bucket returns the bucket named by repository properties.
func Bucket(repository Properties) (string, error) {
	bucket, ok := repository.Lookup(KeyBucket)
	if !ok || bucket == "" {
		return "", errors.NewError("config", errors.ErrInvalidConfig).
			WithMessage(KeyBucket + " is not set")
	}
	return bucket, nil
}

// Path returns the key prefix named by package properties. An unset path
// selects the whole bucket.
func Path(pkg Properties) string {
	return pkg.Value(KeyPath)
}

// PropertyDefinition describes one configurable property to a host.
type PropertyDefinition struct {
	DisplayName    string `json:"display-name"`
	DisplayOrder   string `json:"display-order"`
	DefaultValue   string `json:"default-value,omitempty"`
	Required       bool   `json:"required"`
	Secure         bool   `json:"secure"`
	PartOfIdentity bool   `json:"part-of-identity"`
}

// RepositoryConfiguration describes the repository properties.
func RepositoryConfiguration() map[string]PropertyDefinition {
	return map[string]PropertyDefinition{
		KeyBucket: {
			DisplayName:    "S3 Bucket",
			DisplayOrder:   "0",
			Required:       true,
			PartOfIdentity: true,
		},
	}
}

// PackageConfiguration describes the package properties.
func PackageConfiguration() map[string]PropertyDefinition {
	return map[string]PropertyDefinition{
		KeyPath: {
			DisplayName:    "Path",
			DisplayOrder:   "0",
			Required:       false,
			PartOfIdentity: true,
		},
	}
}
