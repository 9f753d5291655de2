package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"player-economy/internal/errors"
	"player-economy/internal/world"
)

type WorldHandler struct {
	world *world.World
	// isOperator grants operator status to configured usernames on join.
	isOperator func(username string) bool
}

func NewWorldHandler(w *world.World, isOperator func(username string) bool) *WorldHandler {
	if isOperator == nil {
		isOperator = func(string) bool { return false }
	}
	return &WorldHandler{
		world:      w,
		isOperator: isOperator,
	}
}

type JoinRequest struct {
	Username string `json:"username"`
	Operator bool   `json:"operator"`
}

type PlayerResponse struct {
	Username string `json:"username"`
	Operator bool   `json:"operator"`
}

type SpawnRequest struct {
	Name string `json:"name"`
}

type EntityResponse struct {
	Name     string `json:"name"`
	IsPlayer bool   `json:"is_player"`
}

type MessagesResponse struct {
	Messages []string `json:"messages"`
}

func (h *WorldHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	player, err := h.world.Join(r.Context(), req.Username, req.Operator || h.isOperator(req.Username))
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, PlayerResponse{
		Username: player.Name(),
		Operator: player.IsOperator(),
	})
}

func (h *WorldHandler) Leave(w http.ResponseWriter, r *http.Request) {
	if err := h.world.Leave(mux.Vars(r)["username"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WorldHandler) Spawn(w http.ResponseWriter, r *http.Request) {
	var req SpawnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, errors.NewAppError(errors.InvalidInput, "name is required"))
		return
	}

	mob := h.world.Spawn(req.Name)
	writeData(w, http.StatusCreated, EntityResponse{Name: mob.Name(), IsPlayer: mob.IsPlayer()})
}

// Messages drains the chat messages queued for an online player.
func (h *WorldHandler) Messages(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if _, online := h.world.Player(username); !online {
		writeError(w, errors.ErrPlayerNotOnline)
		return
	}

	messages := h.world.Messages(username)
	if messages == nil {
		messages = []string{}
	}
	writeData(w, http.StatusOK, MessagesResponse{Messages: messages})
}
