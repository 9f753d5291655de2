package handler

import (
	"net/http"
	"strings"

	"player-economy/internal/command"
	"player-economy/internal/domain"
	"player-economy/internal/errors"
)

// Origins finds the command origin of an online player.
type Origins interface {
	Origin(username string) (domain.Origin, error)
}

type CommandHandler struct {
	dispatcher *command.Dispatcher
	origins    Origins
	console    domain.Origin
}

func NewCommandHandler(dispatcher *command.Dispatcher, origins Origins, console domain.Origin) *CommandHandler {
	return &CommandHandler{
		dispatcher: dispatcher,
		origins:    origins,
		console:    console,
	}
}

// ExecuteCommandRequest runs Command as the player named Origin, or as the
// console when Origin is empty.
type ExecuteCommandRequest struct {
	Origin  string `json:"origin"`
	Command string `json:"command"`
}

type CommandResponse struct {
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

func (h *CommandHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteCommandRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if strings.TrimSpace(req.Command) == "" {
		writeError(w, errors.NewAppError(errors.InvalidInput, "command is required"))
		return
	}

	origin := h.console
	if req.Origin != "" {
		var err error
		origin, err = h.origins.Origin(req.Origin)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	result, err := h.dispatcher.Execute(r.Context(), origin, req.Command)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, CommandResponse{
		Message: result.Message,
		Fields:  result.Fields,
	})
}
