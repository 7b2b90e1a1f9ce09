package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/example/walletchat/internal/auth"
	"github.com/example/walletchat/internal/history"
	"github.com/example/walletchat/pkg/jsonutil"
)

// HistoryHandler serves saved chat transcripts for the connected wallet.
type HistoryHandler struct {
	Store history.Store
}

func NewHistoryHandler(store history.Store) *HistoryHandler { return &HistoryHandler{Store: store} }

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	address := auth.WalletFrom(r.Context())
	if address == "" {
		jsonutil.Error(w, http.StatusUnauthorized, "wallet not connected")
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	chats, err := h.Store.List(r.Context(), address, limit)
	if err != nil {
		jsonutil.Error(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}
	if chats == nil {
		chats = []history.Chat{}
	}
	jsonutil.JSON(w, http.StatusOK, map[string]interface{}{"chats": chats})
}

func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	address := auth.WalletFrom(r.Context())
	if address == "" {
		jsonutil.Error(w, http.StatusUnauthorized, "wallet not connected")
		return
	}
	id := chi.URLParam(r, "id")
	err := h.Store.Delete(r.Context(), address, id)
	switch {
	case err == nil:
		jsonutil.JSON(w, http.StatusOK, map[string]string{"deleted": id})
	case errors.Is(err, mongo.ErrNoDocuments):
		jsonutil.Error(w, http.StatusNotFound, "chat not found")
	default:
		jsonutil.Error(w, http.StatusBadRequest, err.Error())
	}
}
