// Package events delivers object-storage creation notifications to the
// pipeline stages. Buckets publish S3-style notifications to one topic; each
// hosted stage consumes it through its own consumer group so acknowledgement
// and redelivery stay independent per stage.
package events

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/hnrq/veloren-translate/pipeline"
)

// notification mirrors the slice of the S3/MinIO bucket-notification payload
// the pipeline routes on. Object keys arrive URL-encoded.
type notification struct {
	Records []struct {
		EventName string `json:"eventName"`
		S3        struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key         string `json:"key"`
				ContentType string `json:"contentType"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// DecodeNotification parses one bucket-notification message into object
// events. Only creation events are kept; records missing a bucket or key are
// dropped. A payload that is not JSON at all is an error so the caller can
// decide what to do with the message.
func DecodeNotification(payload []byte) ([]pipeline.ObjectEvent, error) {
	var n notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, fmt.Errorf("decode storage notification: %w", err)
	}

	events := make([]pipeline.ObjectEvent, 0, len(n.Records))
	for _, rec := range n.Records {
		if rec.EventName != "" && !strings.Contains(rec.EventName, "ObjectCreated") {
			continue
		}
		key := rec.S3.Object.Key
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if rec.S3.Bucket.Name == "" || key == "" {
			continue
		}
		events = append(events, pipeline.ObjectEvent{
			Bucket:      rec.S3.Bucket.Name,
			Key:         key,
			ContentType: rec.S3.Object.ContentType,
		})
	}
	return events, nil
}
