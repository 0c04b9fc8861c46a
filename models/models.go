package models

// JobMetadata travels inside the queue message and becomes the video
// metadata record once every rendition has been produced.
type JobMetadata struct {
	SiteUsername string `json:"qutUsername"`
	VideoID      string `json:"videoId"`
	VideoTitle   string `json:"videoTitle"`
	LocationName string `json:"locationName"`
	UploadDate   string `json:"uploadDate"`
	UserName     string `json:"userName"`
}

// Job is one unit of transcoding work for a single uploaded video. It is
// created by the ingest service, carried as the queue message body, and
// consumed by the transcode worker.
type Job struct {
	VideoID        string      `json:"videoId"`
	S3FileLocation string      `json:"s3FileLocation"`
	Metadata       JobMetadata `json:"metadata"`
}

// ProgressStatus is the aggregated polling response for one job.
// Stage is "transcoding", "uploading" or "done"; Progress is 0-100.
type ProgressStatus struct {
	Progress float64 `json:"progress"`
	Stage    string  `json:"stage"`
}

// Record attribute names shared by the metadata and progress tables.
const (
	AttrSiteUsername = "qut-username"
	AttrVideoID      = "videoId"
	AttrLocationName = "locationName"
	AttrUploadDate   = "uploadDate"
	AttrUserName     = "userName"
	AttrVideoTitle   = "videoTitle"
)

// VideoRecord is the finalized metadata for one fully transcoded video.
type VideoRecord struct {
	SiteUsername string `json:"qut-username"`
	VideoID      string `json:"videoId"`
	LocationName string `json:"locationName"`
	UploadDate   string `json:"uploadDate"`
	UserName     string `json:"userName"`
	VideoTitle   string `json:"videoTitle"`
}

// Item converts the record into the generic record-store item shape.
func (v VideoRecord) Item() map[string]interface{} {
	return map[string]interface{}{
		AttrSiteUsername: v.SiteUsername,
		AttrVideoID:      v.VideoID,
		AttrLocationName: v.LocationName,
		AttrUploadDate:   v.UploadDate,
		AttrUserName:     v.UserName,
		AttrVideoTitle:   v.VideoTitle,
	}
}

func itemString(item map[string]interface{}, attr string) string {
	if s, ok := item[attr].(string); ok {
		return s
	}
	return ""
}

// VideoRecordFromItem builds a VideoRecord from a record-store item,
// ignoring any attributes the record type does not carry (such as the
// derivable rendition URL fields older records may contain).
func VideoRecordFromItem(item map[string]interface{}) VideoRecord {
	return VideoRecord{
		SiteUsername: itemString(item, AttrSiteUsername),
		VideoID:      itemString(item, AttrVideoID),
		LocationName: itemString(item, AttrLocationName),
		UploadDate:   itemString(item, AttrUploadDate),
		UserName:     itemString(item, AttrUserName),
		VideoTitle:   itemString(item, AttrVideoTitle),
	}
}
