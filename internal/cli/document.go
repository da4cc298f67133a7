package cli

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/tansive/lexruntime/pkg/lexruntime"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"sigs.k8s.io/yaml"
)

// sessionDocument is one YAML document of a put-session file. Bot, alias and
// user fall back to the command line flags and the configuration.
//
//	bot: OrderFlowers
//	alias: PROD
//	user: user-42
//	accept: text/plain; charset=utf-8
//	session:
//	  sessionAttributes:
//	    channel: web
//	  dialogAction:
//	    type: ElicitSlot
//	    intentName: OrderFlowers
//	    slotToElicit: PickupDate
type sessionDocument struct {
	Bot     string         `json:"bot,omitempty" mapstructure:"bot"`
	Alias   string         `json:"alias,omitempty" mapstructure:"alias"`
	User    string         `json:"user,omitempty" mapstructure:"user"`
	Accept  string         `json:"accept,omitempty" mapstructure:"accept"`
	Session map[string]any `json:"session" mapstructure:"session"`
}

// stringMapPaths lists the fields of a session that hold string maps, as
// gjson paths. YAML scalars under them are converted to strings.
var stringMapPaths = []string{
	"sessionAttributes",
	"dialogAction.slots",
	"recentIntentSummaryView.#.slots",
	"activeContexts.#.parameters",
}

// decodeSessionDocument reads one raw YAML document and applies the --set
// overrides (path=value, paths relative to the session) to its session.
func decodeSessionDocument(raw map[string]any, overrides []string) (*sessionDocument, error) {
	var doc sessionDocument
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid session document: %w", err)
	}
	if doc.Session == nil {
		doc.Session = map[string]any{}
	}

	session, err := json.Marshal(doc.Session)
	if err != nil {
		return nil, fmt.Errorf("invalid session document: %w", err)
	}
	if session, err = applyOverrides(session, overrides); err != nil {
		return nil, err
	}
	if session, err = coerceStringMaps(session); err != nil {
		return nil, err
	}

	doc.Session = map[string]any{}
	if err := json.Unmarshal(session, &doc.Session); err != nil {
		return nil, fmt.Errorf("invalid session document: %w", err)
	}
	return &doc, nil
}

// applyOverrides sets each path=value on the JSON document. Values that are
// valid JSON are set as JSON, everything else as a string.
func applyOverrides(doc []byte, overrides []string) ([]byte, error) {
	for _, o := range overrides {
		path, value, ok := strings.Cut(o, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid --set %q, expected path=value", o)
		}
		var err error
		if gjson.Valid(value) {
			doc, err = sjson.SetRawBytes(doc, path, []byte(value))
		} else {
			doc, err = sjson.SetBytes(doc, path, value)
		}
		if err != nil {
			return nil, fmt.Errorf("unable to set %s: %w", path, err)
		}
	}
	return doc, nil
}

// coerceStringMaps rewrites the string map fields of a session so numbers
// and booleans written in YAML become strings.
func coerceStringMaps(doc []byte) ([]byte, error) {
	for _, path := range stringMapPaths {
		parent, field, isList := strings.Cut(path, ".#.")
		if !isList {
			var err error
			if doc, err = coerceAt(doc, path); err != nil {
				return nil, err
			}
			continue
		}
		n := gjson.GetBytes(doc, parent+".#").Int()
		for i := int64(0); i < n; i++ {
			var err error
			if doc, err = coerceAt(doc, fmt.Sprintf("%s.%d.%s", parent, i, field)); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

func coerceAt(doc []byte, path string) ([]byte, error) {
	v := gjson.GetBytes(doc, path)
	if !v.Exists() || v.Type == gjson.Null {
		return doc, nil
	}
	if !v.IsObject() {
		return nil, fmt.Errorf("%s must be a map of strings", path)
	}
	m, err := toStringMap(v.Value())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sjson.SetBytes(doc, path, m)
}

// toStringMap converts a map of scalars to a map of strings.
func toStringMap(in any) (map[string]string, error) {
	out := map[string]string{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.DecodeHookFuncKind(func(from, to reflect.Kind, data any) (any, error) {
			if to != reflect.String {
				return data, nil
			}
			switch from {
			case reflect.Bool:
				return strconv.FormatBool(data.(bool)), nil
			case reflect.Map, reflect.Slice:
				return nil, fmt.Errorf("nested values are not allowed")
			}
			return data, nil
		}),
		Result: &out,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(in); err != nil {
		return nil, err
	}
	return out, nil
}

// putSessionRequest builds the request for a document, filling bot, alias
// and user from t where the document leaves them out.
func (d *sessionDocument) putSessionRequest(t target) (*lexruntime.PutSessionRequest, error) {
	if d.Bot != "" {
		t.Bot = d.Bot
	}
	if d.Alias != "" {
		t.Alias = d.Alias
	}
	if d.User != "" {
		t.User = d.User
	}
	if t.Bot == "" || t.Alias == "" || t.User == "" {
		return nil, fmt.Errorf("session document needs bot, alias and user")
	}

	session, err := json.Marshal(d.Session)
	if err != nil {
		return nil, err
	}
	req := &lexruntime.PutSessionRequest{}
	if err := json.Unmarshal(session, req); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	req.WithBotName(t.Bot).WithBotAlias(t.Alias).WithUserID(t.User)
	if d.Accept != "" {
		req.WithAccept(d.Accept)
	}
	return req, nil
}

// sessionDocumentYAML renders a request as a put-session document.
func sessionDocumentYAML(req *lexruntime.PutSessionRequest) ([]byte, error) {
	session, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	doc := sessionDocument{
		Bot:     req.BotName.Value,
		Alias:   req.BotAlias.Value,
		User:    req.UserID.Value,
		Accept:  req.Accept.Value,
		Session: map[string]any{},
	}
	if err := json.Unmarshal(session, &doc.Session); err != nil {
		return nil, err
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return yaml.JSONToYAML(out)
}
