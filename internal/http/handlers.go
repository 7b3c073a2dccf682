package http

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/10botics/cantonese-speech-to-text/internal/apperr"
	"github.com/10botics/cantonese-speech-to-text/internal/events"
	"github.com/10botics/cantonese-speech-to-text/internal/guard"
	"github.com/10botics/cantonese-speech-to-text/internal/models"
	"github.com/10botics/cantonese-speech-to-text/internal/observability/logging"
	"github.com/10botics/cantonese-speech-to-text/internal/observability/metrics"
	"github.com/10botics/cantonese-speech-to-text/internal/service/speaker"
	"github.com/10botics/cantonese-speech-to-text/internal/service/stt"
	"github.com/10botics/cantonese-speech-to-text/internal/service/textconv"
	"github.com/10botics/cantonese-speech-to-text/internal/service/transcript"
)

// Handlers wires the relay endpoints to the guards, engine adapters and the
// transcript core.
type Handlers struct {
	Adapter     stt.Adapter
	Provider    string
	Resolver    *speaker.Resolver
	Limiter     *guard.RateLimiter
	Limits      guard.Limits
	Publisher   *events.Publisher
	Converter   textconv.Converter
	Metrics     *metrics.Metrics
	Language    string
	Diarize     bool
	TagEvents   bool
	MaxBodySize int64
}

type rateLimitInfo struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"resetTime"`
}

type transcribeResponse struct {
	Success            bool                        `json:"success"`
	Data               *models.TranscriptionResult `json:"data"`
	Segments           []models.Segment            `json:"segments"`
	ValidationWarnings []string                    `json:"validationWarnings,omitempty"`
	RateLimitInfo      rateLimitInfo               `json:"rateLimitInfo"`
}

type identifyRequest struct {
	TranscriptSegments []struct {
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
	} `json:"transcriptSegments"`
	ParticipantList string `json:"participantList"`
}

type identifyResponse struct {
	Success       bool              `json:"success"`
	Mappings      map[string]string `json:"mappings"`
	RateLimitInfo rateLimitInfo     `json:"rateLimitInfo"`
}

type errorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Transcribe relays one uploaded audio file to the STT engine and returns
// the transcription with reconstructed speaker segments.
func (h *Handlers) Transcribe(w http.ResponseWriter, r *http.Request) {
	clientID := clientIP(r)
	logger := logging.WithRequest("transcribe", clientID, middleware.GetReqID(r.Context()))

	rate, err := h.Limiter.Allow(guard.NamespaceTranscribe, clientID)
	setRateHeaders(w, rate)
	if err != nil {
		h.Metrics.RecordRateLimitReject(guard.NamespaceTranscribe)
		writeError(w, err, rate)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBodySize)
	if err := r.ParseMultipartForm(h.MaxBodySize); err != nil {
		writeError(w, apperr.BadRequest("could not parse multipart form"), rate)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperr.BadRequest("no audio file provided"), rate)
		return
	}
	defer file.Close()

	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)
	warnings, err := h.Limits.Validate(duration, header.Size)
	if err != nil {
		ae := apperr.From(err, "validation")
		h.Metrics.RecordValidationReject(rejectReason(ae))
		logger.Warn().Err(err).Msg("Audio rejected by limits validation")
		writeError(w, err, rate)
		return
	}

	languageCode := r.FormValue("languageCode")
	if languageCode == "" {
		languageCode = h.Language
	}

	start := time.Now()
	result, err := h.Adapter.Transcribe(r.Context(), stt.Request{
		Audio:          file,
		Filename:       header.Filename,
		LanguageCode:   languageCode,
		Diarize:        h.Diarize,
		TagAudioEvents: h.TagEvents,
	})
	if err != nil {
		h.Metrics.RecordSTTError(h.Provider)
		logger.Error().Err(err).Msg("Transcription engine call failed")
		writeError(w, err, rate)
		return
	}

	if h.Converter != nil {
		converted := textconv.ConvertResult(*result, h.Converter)
		result = &converted
	}
	segments := transcript.Build(result.Words)
	h.Metrics.RecordTranscription(h.Provider, time.Since(start).Seconds(), len(result.Words), len(segments))

	h.publishCompleted(r, clientID, result, segments, duration)

	logger.Info().
		Str("languageCode", result.LanguageCode).
		Int("tokens", len(result.Words)).
		Int("segments", len(segments)).
		Msg("Transcription relayed")

	writeJSON(w, http.StatusOK, transcribeResponse{
		Success:            true,
		Data:               result,
		Segments:           segments,
		ValidationWarnings: warnings,
		RateLimitInfo:      rateInfo(rate),
	})
}

// IdentifySpeakers relays the transcript and participant list to the naming
// engine. Naming is an enhancement: engine failures and unparsable output
// degrade to an empty mapping rather than an error response.
func (h *Handlers) IdentifySpeakers(w http.ResponseWriter, r *http.Request) {
	clientID := clientIP(r)
	logger := logging.WithRequest("speaker-identify", clientID, middleware.GetReqID(r.Context()))

	rate, err := h.Limiter.Allow(guard.NamespaceSpeaker, clientID)
	setRateHeaders(w, rate)
	if err != nil {
		h.Metrics.RecordRateLimitReject(guard.NamespaceSpeaker)
		writeError(w, err, rate)
		return
	}

	var req identifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.BadRequest("invalid request body"), rate)
		return
	}
	if req.TranscriptSegments == nil {
		writeError(w, apperr.BadRequest("invalid transcript segments provided"), rate)
		return
	}
	if req.ParticipantList == "" {
		writeError(w, apperr.BadRequest("participant list is required"), rate)
		return
	}

	segments := make([]models.Segment, 0, len(req.TranscriptSegments))
	for _, s := range req.TranscriptSegments {
		segments = append(segments, models.Segment{SpeakerLabel: s.Speaker, Text: s.Text})
	}

	start := time.Now()
	mappings, err := h.Resolver.Resolve(r.Context(), segments, req.ParticipantList)
	elapsed := time.Since(start).Seconds()
	switch {
	case err != nil:
		h.Metrics.RecordNaming("error", elapsed)
		logger.Warn().Err(err).Msg("Speaker naming degraded to empty mapping")
	case len(mappings) == 0:
		h.Metrics.RecordNaming("empty", elapsed)
	default:
		h.Metrics.RecordNaming("identified", elapsed)
	}

	h.publishSpeakers(r, clientID, mappings)

	writeJSON(w, http.StatusOK, identifyResponse{
		Success:       true,
		Mappings:      mappings,
		RateLimitInfo: rateInfo(rate),
	})
}

// GetLimits advertises the configured audio limits to the UI.
func (h *Handlers) GetLimits(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"maxDurationSeconds":      h.Limits.MaxDurationSeconds,
		"maxFileSizeBytes":        h.Limits.MaxFileSizeBytes,
		"maxFileSizeMB":           h.Limits.MaxFileSizeBytes / (1024 * 1024),
		"advisoryDurationSeconds": h.Limits.AdvisoryDurationSeconds,
	})
}

func (h *Handlers) publishCompleted(r *http.Request, clientID string, result *models.TranscriptionResult, segments []models.Segment, duration float64) {
	speakers := map[string]bool{}
	for _, seg := range segments {
		speakers[seg.SpeakerID] = true
	}
	ev := models.TranscriptCompleted{
		EventType:           "transcript.completed",
		TranscriptID:        uuid.NewString(),
		ClientID:            clientID,
		Timestamp:           time.Now().UnixMilli(),
		LanguageCode:        result.LanguageCode,
		LanguageProbability: result.LanguageProbability,
		DurationSeconds:     duration,
		TokenCount:          len(result.Words),
		SegmentCount:        len(segments),
		SpeakerCount:        len(speakers),
	}
	if err := h.Publisher.PublishCompleted(r.Context(), clientID, ev); err != nil {
		logger := logging.WithClient(clientID)
		logger.Warn().Err(err).Msg("Failed to publish transcript-completed event")
	}
}

func (h *Handlers) publishSpeakers(r *http.Request, clientID string, mappings map[string]string) {
	identified, unknown := 0, 0
	for _, name := range mappings {
		if name == speaker.Unknown {
			unknown++
		} else {
			identified++
		}
	}
	ev := models.SpeakersIdentified{
		EventType:       "transcript.speakers-identified",
		EventID:         uuid.NewString(),
		ClientID:        clientID,
		Timestamp:       time.Now().UnixMilli(),
		Mappings:        mappings,
		IdentifiedCount: identified,
		UnknownCount:    unknown,
	}
	if err := h.Publisher.PublishSpeakers(r.Context(), clientID, ev); err != nil {
		logger := logging.WithClient(clientID)
		logger.Warn().Err(err).Msg("Failed to publish speakers-identified event")
	}
}

// clientIP extracts the rate-limit identifier. The RealIP middleware has
// already folded X-Forwarded-For / X-Real-IP into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func setRateHeaders(w http.ResponseWriter, rate guard.RateResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rate.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rate.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(rate.ResetTime.UnixMilli(), 10))
}

func rateInfo(rate guard.RateResult) rateLimitInfo {
	return rateLimitInfo{
		Limit:     rate.Limit,
		Remaining: rate.Remaining,
		ResetTime: rate.ResetTime.UnixMilli(),
	}
}

func rejectReason(ae *apperr.Error) string {
	if reason, ok := ae.Details["reason"].(string); ok {
		return reason
	}
	return "unknown"
}

func writeError(w http.ResponseWriter, err error, rate guard.RateResult) {
	ae := apperr.From(err, "relay")
	resp := errorResponse{
		Error:   string(ae.Kind),
		Message: ae.Message,
		Details: ae.Details,
	}
	if ae.Kind == apperr.KindRateLimited {
		if resp.Details == nil {
			resp.Details = map[string]any{}
		}
		resp.Details["limit"] = rate.Limit
		resp.Details["remaining"] = rate.Remaining
		w.Header().Set("Retry-After", strconv.Itoa(int(ae.RetryAfter.Seconds())))
	}
	writeJSON(w, ae.HTTPStatus(), resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
