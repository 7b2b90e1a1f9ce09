package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/example/walletchat/internal/auth"
	"github.com/example/walletchat/internal/history"
	"github.com/example/walletchat/internal/intent"
	"github.com/example/walletchat/internal/types"
	"github.com/example/walletchat/internal/wallet"
	"github.com/example/walletchat/pkg/jsonutil"
)

// ChatDeps bundles dependencies needed by the chat handler.
type ChatDeps struct {
	Classifier intent.Classifier
	Dispatcher *intent.Dispatcher
	History    history.Store
}

type ChatHandler struct{ Deps ChatDeps }

func NewChatHandler(deps ChatDeps) *ChatHandler { return &ChatHandler{Deps: deps} }

type chatRequest struct {
	Messages []history.Message `json:"messages"`
}

type chatReply struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Action  string `json:"action,omitempty"`
}

type chatResponse struct {
	Reply  chatReply         `json:"reply"`
	Result *wallet.Result    `json:"result,omitempty"`
	Error  *types.ErrorEntry `json:"error,omitempty"`
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "bad request")
		return
	}
	if len(req.Messages) == 0 {
		jsonutil.Error(w, http.StatusBadRequest, "messages required")
		return
	}

	it, err := h.Deps.Classifier.Classify(r.Context(), toIntentMessages(req.Messages))
	if err != nil {
		log.Printf("event=classify_error err=%v", err)
		jsonutil.Error(w, http.StatusBadGateway, "intent classification failed")
		return
	}

	address := auth.WalletFrom(r.Context())
	res, err := h.Deps.Dispatcher.Dispatch(r.Context(), address, it)

	resp := chatResponse{Reply: chatReply{Role: "assistant", Action: string(it.Action)}}
	if err != nil {
		// resolver failures render inline in the chat, never as a 5xx
		entry := errorEntry(err)
		resp.Error = &entry
		resp.Reply.Content = entry.Error
	} else {
		resp.Result = res
		resp.Reply.Content = renderResult(res)
	}

	h.saveTranscript(r.Context(), address, req.Messages, resp.Reply)
	jsonutil.JSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) saveTranscript(ctx context.Context, address string, msgs []history.Message, reply chatReply) {
	if h.Deps.History == nil || address == "" {
		return
	}
	full := append(append([]history.Message{}, msgs...), history.Message{
		Role:    reply.Role,
		Content: reply.Content,
		Action:  reply.Action,
	})
	// a persistence hiccup must not fail the reply
	if _, err := h.Deps.History.Save(ctx, address, full); err != nil {
		log.Printf("event=history_save_error wallet=%s err=%v", address, err)
	}
}

func toIntentMessages(in []history.Message) []intent.Message {
	out := make([]intent.Message, 0, len(in))
	for _, m := range in {
		role := m.Role
		if role == "" {
			role = "user"
		}
		out = append(out, intent.Message{Role: role, Content: m.Content})
	}
	return out
}

func renderResult(res *wallet.Result) string {
	switch res.Operation {
	case wallet.OpBalance:
		return fmt.Sprintf("Your balance is %.9g SOL (via %s)", res.Balance.Sol, res.Source)
	case wallet.OpTransactions:
		return fmt.Sprintf("Found %d recent transactions (via %s)", len(res.Transactions), res.Source)
	default:
		return "done"
	}
}

// errorEntry maps resolver failures to the inline error codes the UI knows.
func errorEntry(err error) types.ErrorEntry {
	switch {
	case errors.Is(err, wallet.ErrRateLimited):
		return types.ErrorEntry{Code: "rate_limited", Error: "Please wait a moment before asking again."}
	case errors.Is(err, wallet.ErrWalletNotConnected):
		return types.ErrorEntry{Code: "wallet_not_connected", Error: "Connect your wallet first."}
	case errors.Is(err, wallet.ErrAllProvidersExhausted):
		return types.ErrorEntry{Code: "all_providers_exhausted", Error: "Could not reach any data provider, try again later."}
	case errors.Is(err, wallet.ErrUnsupportedNetwork), errors.Is(err, intent.ErrUnsupportedAction), errors.Is(err, wallet.ErrUnknownOperation):
		return types.ErrorEntry{Code: "unsupported", Error: "I can only answer balance and transaction questions for Solana wallets."}
	default:
		return types.ErrorEntry{Code: "internal", Error: "Something went wrong."}
	}
}
