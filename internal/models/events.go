package models

// TranscriptCompleted announces a successful transcription relay.
type TranscriptCompleted struct {
	EventType           string  `json:"eventType"`
	TranscriptID        string  `json:"transcriptId"`
	ClientID            string  `json:"clientId"`
	Timestamp           int64   `json:"timestamp"`
	LanguageCode        string  `json:"languageCode"`
	LanguageProbability float64 `json:"languageProbability"`
	DurationSeconds     float64 `json:"durationSeconds"`
	TokenCount          int     `json:"tokenCount"`
	SegmentCount        int     `json:"segmentCount"`
	SpeakerCount        int     `json:"speakerCount"`
}

// SpeakersIdentified announces a completed speaker naming resolution.
type SpeakersIdentified struct {
	EventType       string            `json:"eventType"`
	EventID         string            `json:"eventId"`
	ClientID        string            `json:"clientId"`
	Timestamp       int64             `json:"timestamp"`
	Mappings        map[string]string `json:"mappings"`
	IdentifiedCount int               `json:"identifiedCount"`
	UnknownCount    int               `json:"unknownCount"`
}
