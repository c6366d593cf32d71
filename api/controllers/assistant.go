package controllers

import (
	"net/http"

	"github.com/pattarapol-dev/srisawat-pos-backend/api/responses"
	"github.com/pattarapol-dev/srisawat-pos-backend/api/validators"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/assistant"
	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/logger"
)

type askAssistantRequest struct {
	Prompt            string `json:"prompt" validate:"required,min=1"`
	SystemInstruction string `json:"system_instruction,omitempty"`
}

type askAssistantResponse struct {
	Reply string `json:"reply"`
}

// AskAssistant forwards a staff question to the AI helper. A nil client
// means the feature is disabled; Ask reports that as a dependency error.
func AskAssistant(client *assistant.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req askAssistantRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		reply, err := client.Ask(r.Context(), req.Prompt, req.SystemInstruction)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, askAssistantResponse{Reply: reply})
	}
}
