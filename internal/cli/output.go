package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3poller/pollertypes"
)

// timestampLayout is the millisecond UTC layout package-material hosts expect.
const timestampLayout = "2006-01-02T15:04:05.000Z"

type checkMessage struct {
	Status   string   `json:"status"`
	Messages []string `json:"messages"`
}

type revisionMessage struct {
	Revision        string `json:"revision,omitempty"`
	Timestamp       string `json:"timestamp,omitempty"`
	User            string `json:"user,omitempty"`
	RevisionComment string `json:"revisionComment,omitempty"`
	TrackbackURL    string `json:"trackbackUrl,omitempty"`
}

func newCheckMessage(result pollertypes.CheckResult) checkMessage {
	messages := result.Messages
	if messages == nil {
		messages = []string{}
	}
	return checkMessage{Status: string(result.Status), Messages: messages}
}

func newRevisionMessage(rev *pollertypes.PackageRevision) revisionMessage {
	if rev == nil || rev.IsEmpty() {
		return revisionMessage{}
	}
	msg := revisionMessage{
		Revision:        rev.RevisionKey,
		User:            rev.SourceLabel,
		RevisionComment: rev.Comment,
		TrackbackURL:    rev.TrackbackURL,
	}
	if rev.HasTimestamp() {
		msg.Timestamp = rev.Timestamp.UTC().Format(timestampLayout)
	}
	return msg
}

// parseTimestamp accepts RFC 3339 as well as the millisecond layout written by
// newRevisionMessage.
func parseTimestamp(value string) (time.Time, error) {
	if ts, err := time.Parse(timestampLayout, value); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
