package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/errors"
)

func TestValidateBucketName(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		wantErr bool
	}{
		{name: "simple", bucket: "artifacts", wantErr: false},
		{name: "dots and hyphens", bucket: "ci.build-artifacts", wantErr: false},
		{name: "leading digit", bucket: "123-builds", wantErr: false},
		{name: "empty", bucket: "", wantErr: true},
		{name: "too short", bucket: "ab", wantErr: true},
		{name: "too long", bucket: strings.Repeat("a", 64), wantErr: true},
		{name: "uppercase", bucket: "Artifacts", wantErr: true},
		{name: "underscore", bucket: "my_bucket", wantErr: true},
		{name: "leading hyphen", bucket: "-artifacts", wantErr: true},
		{name: "trailing dot", bucket: "artifacts.", wantErr: true},
		{name: "ip address", bucket: "192.168.1.10", wantErr: true},
		{name: "adjacent dots", bucket: "ci..artifacts", wantErr: true},
		{name: "reserved prefix", bucket: "xn--artifacts", wantErr: true},
		{name: "reserved suffix", bucket: "artifacts-s3alias", wantErr: true},
		{name: "all digits", bucket: "2024", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketName(tt.bucket)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidBucketName)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidatePrefix(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		wantErr bool
	}{
		{name: "empty", prefix: "", wantErr: false},
		{name: "folder", prefix: "builds/app/", wantErr: false},
		{name: "partial key", prefix: "builds/app-1.", wantErr: false},
		{name: "control character", prefix: "builds/\x00", wantErr: true},
		{name: "too long", prefix: strings.Repeat("p", MaxPrefixLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrefix(tt.prefix)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}
