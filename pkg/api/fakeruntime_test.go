package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/tansive/lexruntime/pkg/lexruntime"
	"github.com/tidwall/gjson"
)

// fakeRuntime serves the runtime REST API for the OrderFlowers bot. The first
// failures requests answer with failStatus before it behaves normally.
type fakeRuntime struct {
	calls      atomic.Int32
	failures   atomic.Int32
	failStatus int

	mu      sync.Mutex
	last    *http.Request
	lastRaw []byte
}

func (f *fakeRuntime) failFirst(n int, status int) {
	f.failures.Store(int32(n))
	f.failStatus = status
}

func (f *fakeRuntime) lastRequest() (*http.Request, []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last, f.lastRaw
}

func (f *fakeRuntime) router() http.Handler {
	r := chi.NewRouter()
	r.Use(f.capture)
	r.Route("/bot/{bot}/alias/{alias}/user/{user}", func(r chi.Router) {
		r.Post("/text", f.postText)
		r.Post("/content", f.postContent)
		r.Post("/session", f.putSession)
		r.Get("/session", f.getSession)
		r.Delete("/session", f.deleteSession)
	})
	return r
}

func (f *fakeRuntime) capture(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.last, f.lastRaw = r, body
		f.mu.Unlock()
		if f.failures.Add(-1) >= 0 {
			writeError(w, f.failStatus, "ThrottlingException", "rate exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, errType, msg string) {
	w.Header().Set("Content-Type", "application/x-amz-json-1.1")
	w.Header().Set("x-amzn-RequestId", "fake-request")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"__type": errType, "message": msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (f *fakeRuntime) postText(w http.ResponseWriter, r *http.Request) {
	_, body := f.lastRequest()
	input := gjson.GetBytes(body, "inputText").String()
	if input == "" {
		writeError(w, http.StatusBadRequest, "BadRequestException", "inputText is required")
		return
	}
	res := map[string]any{
		"intentName":        "OrderFlowers",
		"dialogState":       "ElicitSlot",
		"slotToElicit":      "FlowerType",
		"message":           "What type of flowers would you like to order?",
		"messageFormat":     "PlainText",
		"sessionId":         "s-" + chi.URLParam(r, "user"),
		"slots":             map[string]any{"FlowerType": nil},
		"sessionAttributes": json.RawMessage(orEmpty(gjson.GetBytes(body, "sessionAttributes").Raw)),
	}
	if input == "roses" {
		res["dialogState"] = "ReadyForFulfillment"
		res["slots"] = map[string]string{"FlowerType": "roses"}
		delete(res, "slotToElicit")
	}
	writeJSON(w, res)
}

func orEmpty(raw string) string {
	if raw == "" {
		return "{}"
	}
	return raw
}

func (f *fakeRuntime) postContent(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set(lexruntime.HeaderIntentName, "OrderFlowers")
	h.Set(lexruntime.HeaderDialogState, "ElicitSlot")
	h.Set(lexruntime.HeaderSlotToElicit, "FlowerType")
	h.Set(lexruntime.HeaderSessionID, "s-"+chi.URLParam(r, "user"))
	h.Set(lexruntime.HeaderSlots, lexruntime.EncodeHeaderValue(`{"FlowerType":null}`))
	if v := r.Header.Get(lexruntime.HeaderSessionAttributes); v != "" {
		h.Set(lexruntime.HeaderSessionAttributes, v)
	}
	h.Set(lexruntime.HeaderEncodedInputTranscript, lexruntime.EncodeHeaderValue("i would like to order flowers"))
	h.Set(lexruntime.HeaderEncodedMessage, lexruntime.EncodeHeaderValue("What type of flowers?"))
	h.Set(lexruntime.HeaderMessageFormat, "PlainText")
	audio := []byte("ID3\x04\x00fake-mpeg-frames")
	h.Set(lexruntime.HeaderContentType, lexruntime.MediaMPEG)
	h.Set("Content-Length", strconv.Itoa(len(audio)))
	w.Write(audio)
}

func (f *fakeRuntime) putSession(w http.ResponseWriter, r *http.Request) {
	_, body := f.lastRequest()
	h := w.Header()
	if action := gjson.GetBytes(body, "dialogAction"); action.Exists() {
		h.Set(lexruntime.HeaderIntentName, action.Get("intentName").String())
		h.Set(lexruntime.HeaderDialogState, action.Get("type").String())
		if slot := action.Get("slotToElicit"); slot.Exists() {
			h.Set(lexruntime.HeaderSlotToElicit, slot.String())
		}
		if slots := action.Get("slots"); slots.Exists() {
			h.Set(lexruntime.HeaderSlots, lexruntime.EncodeHeaderValue(slots.Raw))
		}
		if msg := action.Get("message"); msg.Exists() {
			h.Set(lexruntime.HeaderEncodedMessage, lexruntime.EncodeHeaderValue(msg.String()))
			h.Set(lexruntime.HeaderMessageFormat, action.Get("messageFormat").String())
		}
	}
	if attrs := gjson.GetBytes(body, "sessionAttributes"); attrs.Exists() {
		h.Set(lexruntime.HeaderSessionAttributes, lexruntime.EncodeHeaderValue(attrs.Raw))
	}
	if contexts := gjson.GetBytes(body, "activeContexts"); contexts.Exists() {
		h.Set(lexruntime.HeaderActiveContexts, lexruntime.EncodeHeaderValue(contexts.Raw))
	}
	h.Set(lexruntime.HeaderSessionID, "s-"+chi.URLParam(r, "user"))
	h.Set(lexruntime.HeaderContentType, lexruntime.MediaTextPlain)
	h.Set("Content-Length", "0")
	w.WriteHeader(http.StatusOK)
}

func (f *fakeRuntime) getSession(w http.ResponseWriter, r *http.Request) {
	summaries := []map[string]any{
		{"intentName": "OrderFlowers", "dialogActionType": "ElicitSlot", "slotToElicit": "FlowerType", "checkpointLabel": "pickup"},
		{"intentName": "Greeting", "dialogActionType": "Close", "fulfillmentState": "Fulfilled"},
	}
	if label := r.URL.Query().Get("checkpointLabelFilter"); label != "" {
		summaries = summaries[:1]
	}
	writeJSON(w, map[string]any{
		"sessionId":               "s-" + chi.URLParam(r, "user"),
		"sessionAttributes":       map[string]string{"channel": "web"},
		"recentIntentSummaryView": summaries,
		"dialogAction": map[string]any{
			"type":         "ElicitSlot",
			"intentName":   "OrderFlowers",
			"slotToElicit": "FlowerType",
			"slots":        map[string]any{"FlowerType": nil},
		},
		"activeContexts": []any{},
	})
}

func (f *fakeRuntime) deleteSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"botName":   chi.URLParam(r, "bot"),
		"botAlias":  chi.URLParam(r, "alias"),
		"userId":    chi.URLParam(r, "user"),
		"sessionId": "s-" + chi.URLParam(r, "user"),
	})
}
