package endpoints

import (
	"errors"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/speech"
	"github.com/jackzampolin/formassist/internal/svcctx"
)

// SpeakRequest is the body of speech synthesis.
type SpeakRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang,omitempty"`
}

// SpeakEndpoint handles POST /api/voice/speak.
type SpeakEndpoint struct{}

func (e *SpeakEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/voice/speak", e.handler
}

func (e *SpeakEndpoint) RequiresInit() bool { return false }
func (e *SpeakEndpoint) Group() string      { return "voice" }

// handler godoc
//
//	@Summary	Synthesize speech
//	@Tags		voice
//	@Accept		json
//	@Produce	audio/mpeg
//	@Param		request	body		SpeakRequest	true	"Text and language"
//	@Success	200		{file}		file
//	@Failure	400		{object}	ErrorResponse
//	@Failure	503		{object}	ErrorResponse
//	@Router		/api/voice/speak [post]
func (e *SpeakEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req SpeakRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	svc := svcctx.SpeechFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, "speech service not initialized")
		return
	}
	audio, err := svc.Speak(r.Context(), req.Text, req.Lang)
	switch {
	case errors.Is(err, speech.ErrEmptyText):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, speech.ErrNoTTSProvider):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		svcctx.LoggerFrom(r.Context()).Error("speech synthesis failed", "lang", req.Lang, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", "inline; filename=tts.mp3")
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}

func (e *SpeakEndpoint) Command(getServerURL func() string) *cobra.Command {
	var lang, out string
	cmd := &cobra.Command{
		Use:   "speak <text>",
		Short: "Synthesize speech to an MP3 file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			audio, _, err := client.Raw(cmd.Context(), http.MethodPost, "/api/voice/speak", SpeakRequest{Text: strings.Join(args, " "), Lang: lang})
			if err != nil {
				return err
			}
			return api.SaveOrPrint(out, audio)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "Language code")
	cmd.Flags().StringVar(&out, "out", "tts.mp3", "Output file ('-' for stdout)")
	return cmd
}

// TranscribeEndpoint handles POST /api/voice/transcribe. Server-side
// transcription is retired; browsers do speech recognition.
type TranscribeEndpoint struct{}

func (e *TranscribeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/voice/transcribe", e.handler
}

func (e *TranscribeEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Retired transcription endpoint
//	@Tags		voice
//	@Produce	json
//	@Failure	410	{object}	ErrorResponse
//	@Router		/api/voice/transcribe [post]
func (e *TranscribeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusGone, speech.ErrTranscriptionRetired.Error()+". Please use the browser speech recognition control.")
}

func (e *TranscribeEndpoint) Command(_ func() string) *cobra.Command { return nil }
