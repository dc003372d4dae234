package types

// Progress topics. The *-progress topics carry a cumulative byte count, not a
// delta, so a late subscriber can render a percentage from the latest event
// alone. TopicTotalSize is emitted once before a transfer begins.
const (
	TopicTotalSize        = "total-size"
	TopicDownloadProgress = "download-progress"
	TopicUploadProgress   = "upload-progress"
	TopicZipProgress      = "zip-progress"
)

// ProgressEvent is a best-effort notification for an in-flight transfer or
// archive operation. Delivery is fire-and-forget; events carry no per-command
// addressing.
type ProgressEvent struct {
	Topic string `json:"topic"`
	Value uint64 `json:"value"`
}
