package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/walletchat/internal/auth"
	"github.com/example/walletchat/internal/intent"
	"github.com/example/walletchat/internal/wallet"
	"github.com/example/walletchat/pkg/jsonutil"
)

// WalletHandler exposes the resolver directly, bypassing the classifier.
type WalletHandler struct {
	Resolver intent.WalletResolver
}

func NewWalletHandler(r intent.WalletResolver) *WalletHandler { return &WalletHandler{Resolver: r} }

type walletRequest struct {
	Limit   int    `json:"limit,omitempty"`
	Network string `json:"network,omitempty"`
}

func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, wallet.OpBalance)
}

func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, wallet.OpTransactions)
}

func (h *WalletHandler) resolve(w http.ResponseWriter, r *http.Request, op wallet.Operation) {
	var req walletRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonutil.Error(w, http.StatusBadRequest, "bad request")
			return
		}
	}
	address := auth.WalletFrom(r.Context())
	res, err := h.Resolver.Resolve(r.Context(), address, op, wallet.Params{Limit: req.Limit, Network: req.Network})
	if err != nil {
		jsonutil.Error(w, statusFor(err), err.Error())
		return
	}
	jsonutil.JSON(w, http.StatusOK, res)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, wallet.ErrWalletNotConnected):
		return http.StatusUnauthorized
	case errors.Is(err, wallet.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, wallet.ErrAllProvidersExhausted):
		return http.StatusBadGateway
	case errors.Is(err, wallet.ErrUnsupportedNetwork), errors.Is(err, wallet.ErrUnknownOperation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
