// Package handlers exposes the HTTP surface: the Twilio voice webhooks that
// feed the call-flow engine, and the small JSON API used by operators.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/twilio/twilio-go/twiml"
	"go.uber.org/zap"

	"movecall/services/callflow"
	"movecall/utils"
)

// VoiceHandler translates Twilio webhook requests into engine events and the
// engine's actions back into TwiML.
type VoiceHandler struct {
	engine *callflow.Engine
	logger *zap.Logger
}

func NewVoiceHandler(engine *callflow.Engine, logger *zap.Logger) *VoiceHandler {
	return &VoiceHandler{engine: engine, logger: logger}
}

// Answer handles the initial webhook when a call connects.
func (h *VoiceHandler) Answer(c *gin.Context) {
	callID := c.PostForm("CallSid")
	if callID == "" {
		// Direct posts during local testing carry no SID.
		callID = "local-" + uuid.NewString()
	}
	act := h.engine.HandleTurn(c.Request.Context(), callflow.Event{
		Kind:   callflow.EventStart,
		CallID: callID,
		From:   c.PostForm("From"),
	})
	h.respond(c, act)
}

// Gather handles each subsequent turn: Twilio posts the transcribed speech
// and/or keypresses collected since the last response.
func (h *VoiceHandler) Gather(c *gin.Context) {
	act := h.engine.HandleTurn(c.Request.Context(), callflow.Event{
		Kind:   callflow.EventInput,
		CallID: c.PostForm("CallSid"),
		Input:  c.PostForm("SpeechResult"),
		Digits: c.PostForm("Digits"),
	})
	h.respond(c, act)
}

// Status receives call lifecycle callbacks; a finished call closes the
// session so mid-flow hangups are recorded as abandoned.
func (h *VoiceHandler) Status(c *gin.Context) {
	switch c.PostForm("CallStatus") {
	case "completed", "busy", "failed", "no-answer", "canceled":
		h.engine.HandleTurn(c.Request.Context(), callflow.Event{
			Kind:   callflow.EventEnd,
			CallID: c.PostForm("CallSid"),
		})
	}
	c.Status(http.StatusNoContent)
}

// respond renders an engine action as TwiML.
func (h *VoiceHandler) respond(c *gin.Context, act callflow.Action) {
	says := make([]twiml.Element, 0, len(act.Say))
	for _, line := range act.Say {
		says = append(says, &twiml.VoiceSay{Message: line})
	}

	var verbs []twiml.Element
	switch {
	case act.Gather:
		verbs = []twiml.Element{&twiml.VoiceGather{
			Action:              "/voice/gather",
			Method:              "POST",
			Input:               "speech dtmf",
			NumDigits:           "1",
			SpeechTimeout:       "auto",
			ActionOnEmptyResult: "true",
			InnerElements:       says,
		}}
	case act.TransferTo != "":
		verbs = append(says, &twiml.VoiceDial{Number: act.TransferTo})
	default:
		verbs = append(says, &twiml.VoiceHangup{})
	}

	doc, err := twiml.Voice(verbs)
	if err != nil {
		h.logger.Error("failed to render TwiML", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to render response")
		return
	}
	c.Header("Content-Type", "text/xml")
	c.String(http.StatusOK, doc)
}
