package intent

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Action is the classified query kind. "network" is still emitted by the
// classifier schema but has no resolver behind it.
type Action string

const (
	ActionBalance      Action = "balance"
	ActionTransactions Action = "transactions"
	ActionNetwork      Action = "network"
)

// Params mirrors the classifier's structured output.
type Params struct {
	Limit   int    `json:"limit,omitempty"`
	Network string `json:"network,omitempty"`
}

// Intent is the {action, params} pair produced by the language-model layer.
type Intent struct {
	Action Action `json:"action"`
	Params Params `json:"params"`
}

// Message is one chat message sent to the classifier.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

var ErrNoIntent = errors.New("classifier produced no intent")

func (a Action) valid() bool {
	return a == ActionBalance || a == ActionTransactions || a == ActionNetwork
}

func (i *Intent) applyDefaults() {
	if i.Params.Limit <= 0 {
		i.Params.Limit = 10
	}
	if i.Params.Network == "" {
		i.Params.Network = "solana"
	}
}

// DecodeStream reads an application/x-ndjson stream of partially filled
// objects and returns the last one carrying a recognized action, with
// defaults applied. Lines that do not parse are skipped; the stream grows
// the object incrementally and only the final complete object matters.
func DecodeStream(r io.Reader) (Intent, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var (
		last  Intent
		found bool
	)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var it Intent
		if err := json.Unmarshal([]byte(line), &it); err != nil {
			continue
		}
		if !it.Action.valid() {
			continue
		}
		last = it
		found = true
	}
	if err := sc.Err(); err != nil {
		return Intent{}, fmt.Errorf("read stream: %w", err)
	}
	if !found {
		return Intent{}, ErrNoIntent
	}
	last.applyDefaults()
	return last, nil
}
