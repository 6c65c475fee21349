// Package script runs per-guild JavaScript filter hooks. A hook sees the
// post and the built-in verdict and may veto or rescue the lead.
package script

import (
	"errors"
	"time"

	"leadfilter/lead"
	"leadfilter/logreport"

	"github.com/robertkrimen/otto"
	_ "github.com/robertkrimen/otto/underscore"
)

var errCodeTimeout = errors.New("JavaScript took too long to execute")

// Hooks get a short budget; they are decision tweaks, not programs.
const codeTimeout = 100 * time.Millisecond

// Input is the post a hook gets to inspect.
type Input struct {
	Text      string   `json:"text"`
	ASINs     []string `json:"asins"`
	GuildID   string   `json:"guild_id"`
	ChannelID string   `json:"channel_id"`
}

// Hook is a compiled per-guild filter script.
type Hook struct {
	source    string
	logPrint  logreport.Logf
	logPrefix string
}

// NewHook wraps a script source for running against decisions.
func NewHook(source string, logPrint logreport.Logf, logPrefix string) *Hook {
	return &Hook{source: source, logPrint: logPrint, logPrefix: logPrefix}
}

// Apply runs the hook against the built-in decision and returns the
// possibly amended one. Script errors and timeouts leave the built-in
// decision untouched.
func (h *Hook) Apply(decision lead.Decision, input Input) lead.Decision {
	amended, err := h.run(decision, input)
	if err != nil {
		h.logPrint("%s [hook] script error for guild %s: %v",
			h.logPrefix, input.GuildID, err)
		return decision
	}
	return amended
}

func (h *Hook) run(decision lead.Decision, input Input) (out lead.Decision, err error) {
	vm := otto.New()

	post := map[string]interface{}{
		"text":       input.Text,
		"asins":      input.ASINs,
		"guild_id":   input.GuildID,
		"channel_id": input.ChannelID,
	}
	if decision.ROI != nil {
		post["roi"] = *decision.ROI
	}
	if decision.Eligible != nil {
		post["eligible"] = *decision.Eligible
	}
	post["blocked"] = decision.HasBlockAlert

	if err = vm.Set("post", post); err != nil {
		return decision, err
	}
	if err = vm.Set("decision", map[string]interface{}{
		"pass":   decision.OK,
		"reason": decision.Reason,
	}); err != nil {
		return decision, err
	}
	if err = vm.Set("log", func(call otto.FunctionCall) otto.Value {
		h.logPrint("%s [hook] %v", h.logPrefix, call.Argument(0).String())
		return otto.Value{}
	}); err != nil {
		return decision, err
	}

	defer func() {
		if caught := recover(); caught != nil {
			if caught == errCodeTimeout {
				out, err = decision, errCodeTimeout
				return
			}
			panic(caught)
		}
	}()

	timeoutChannel := make(chan func(), 1)
	vm.Interrupt = timeoutChannel
	go func() {
		time.Sleep(codeTimeout)
		timeoutChannel <- func() { panic(errCodeTimeout) }
	}()

	if _, err = vm.Run(h.source); err != nil {
		return decision, err
	}

	return h.readDecision(vm, decision)
}

func (h *Hook) readDecision(vm *otto.Otto, fallback lead.Decision) (lead.Decision, error) {
	value, err := vm.Get("decision")
	if err != nil {
		return fallback, err
	}
	object := value.Object()
	if object == nil {
		return fallback, errors.New("decision is not an object")
	}

	amended := fallback
	if passValue, err := object.Get("pass"); err == nil {
		if pass, err := passValue.ToBoolean(); err == nil {
			amended.OK = pass
		}
	}
	if reasonValue, err := object.Get("reason"); err == nil && reasonValue.IsString() {
		amended.Reason, _ = reasonValue.ToString()
	}
	return amended, nil
}
