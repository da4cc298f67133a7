package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/tansive/lexruntime/pkg/lexruntime"
	"github.com/tansive/lexruntime/pkg/sessionstore"
	"github.com/tansive/lexruntime/pkg/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"sigs.k8s.io/yaml"
)

var yamlOutput bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "Output the full result in YAML format")
}

var titleCaser = cases.Title(language.English)

// humanize turns a camelCase field name into a title, e.g. slotToElicit
// becomes "Slot To Elicit".
func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return titleCaser.String(b.String())
}

// printResult writes v as JSON or YAML when requested and reports whether it
// did.
func printResult(w io.Writer, v any) (bool, error) {
	switch {
	case jsonOutput:
		return true, printJSON(w, v)
	case yamlOutput:
		return true, printYAML(w, v)
	}
	return false, nil
}

func printYAML(w io.Writer, v any) error {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("unable to format output: %w", err)
	}
	out, err := yaml.JSONToYAML(jsonData)
	if err != nil {
		return fmt.Errorf("unable to format output: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// turnView is the human readable summary of a result.
type turnView struct {
	fields []viewField
	parts  []lexruntime.MessagePart
	card   *lexruntime.ResponseCard
}

type viewField struct {
	name  string
	value string
}

func (v *turnView) str(name string, s types.NullableString) {
	if s.Valid {
		v.fields = append(v.fields, viewField{name, s.Value})
	}
}

func (v *turnView) dialogState(s types.NullableValue[lexruntime.DialogState]) {
	if s.Valid {
		v.fields = append(v.fields, viewField{"dialogState", string(s.Value)})
	}
}

func (v *turnView) strMap(name string, m map[string]string) {
	if m == nil {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]string, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, k+"="+m[k])
	}
	v.fields = append(v.fields, viewField{name, strings.Join(entries, ", ")})
}

func (v *turnView) contexts(contexts []lexruntime.ActiveContext) {
	if contexts == nil {
		return
	}
	names := make([]string, 0, len(contexts))
	for i := range contexts {
		names = append(names, contexts[i].Name.Value)
	}
	v.fields = append(v.fields, viewField{"activeContexts", strings.Join(names, ", ")})
}

func (v *turnView) write(w io.Writer) {
	for _, f := range v.fields {
		keyLabel.Fprintf(w, "%s: ", humanize(f.name))
		if f.name == "dialogState" {
			stateLabel(lexruntime.DialogState(f.value)).Fprintln(w, f.value)
			continue
		}
		fmt.Fprintln(w, f.value)
	}
	for _, p := range v.parts {
		label := "Message"
		if p.Group > 0 {
			label = fmt.Sprintf("Message (group %d)", p.Group)
		}
		keyLabel.Fprintf(w, "%s: ", label)
		if p.Format == lexruntime.MessageFormatSSML || p.Format == lexruntime.MessageFormatCustomPayload {
			fmt.Fprintf(w, "[%s] %s\n", p.Format, p.Value)
		} else {
			fmt.Fprintln(w, p.Value)
		}
	}
	if v.card != nil {
		for i := range v.card.GenericAttachments.Value {
			a := &v.card.GenericAttachments.Value[i]
			keyLabel.Fprint(w, "Card: ")
			fmt.Fprintln(w, a.Title.Value)
			for j := range a.Buttons.Value {
				b := &a.Buttons.Value[j]
				fmt.Fprintf(w, "  [%s] %s\n", b.Value.Value, b.Text.Value)
			}
		}
	}
}

// stateLabel colors finished dialogs green, failed ones red and dialogs
// waiting on the user yellow.
func stateLabel(s lexruntime.DialogState) *color.Color {
	switch {
	case s == lexruntime.DialogStateFailed:
		return errorLabel
	case s.IsTerminal():
		return okLabel
	}
	return warnLabel
}

func postTextView(r *lexruntime.PostTextResult) (*turnView, error) {
	v := &turnView{card: r.ResponseCard}
	v.str("sessionId", r.SessionID)
	v.str("intentName", r.IntentName)
	v.dialogState(r.DialogState)
	v.str("slotToElicit", r.SlotToElicit)
	v.strMap("slots", r.Slots.Map())
	v.strMap("sessionAttributes", r.SessionAttributes.Map())
	v.contexts(r.ActiveContexts.Value)
	if r.SentimentResponse != nil {
		v.str("sentiment", r.SentimentResponse.SentimentLabel)
	}
	parts, err := r.MessageParts()
	if err != nil {
		return nil, err
	}
	v.parts = parts
	return v, nil
}

func postContentView(r *lexruntime.PostContentResult) (*turnView, error) {
	v := &turnView{}
	v.str("sessionId", r.SessionID)
	if r.InputTranscript.Valid || r.EncodedInputTranscript.Valid {
		transcript, err := r.DecodedInputTranscript()
		if err != nil {
			return nil, err
		}
		v.fields = append(v.fields, viewField{"inputTranscript", transcript})
	}
	v.str("intentName", r.IntentName)
	v.dialogState(r.DialogState)
	v.str("slotToElicit", r.SlotToElicit)
	if err := v.headerMaps(r.DecodedSlots, r.DecodedSessionAttributes, r.DecodedActiveContexts); err != nil {
		return nil, err
	}
	parts, err := r.MessageParts()
	if err != nil {
		return nil, err
	}
	v.parts = parts
	return v, nil
}

func putSessionView(r *lexruntime.PutSessionResult) (*turnView, error) {
	v := &turnView{}
	v.str("sessionId", r.SessionID)
	v.str("intentName", r.IntentName)
	v.dialogState(r.DialogState)
	v.str("slotToElicit", r.SlotToElicit)
	if err := v.headerMaps(r.DecodedSlots, r.DecodedSessionAttributes, r.DecodedActiveContexts); err != nil {
		return nil, err
	}
	parts, err := r.MessageParts()
	if err != nil {
		return nil, err
	}
	v.parts = parts
	return v, nil
}

func (v *turnView) headerMaps(
	slots func() (map[string]string, error),
	attrs func() (map[string]string, error),
	contexts func() ([]lexruntime.ActiveContext, error),
) error {
	m, err := slots()
	if err != nil {
		return err
	}
	v.strMap("slots", m)
	if m, err = attrs(); err != nil {
		return err
	}
	v.strMap("sessionAttributes", m)
	c, err := contexts()
	if err != nil {
		return err
	}
	v.contexts(c)
	return nil
}

func getSessionView(r *lexruntime.GetSessionResult) *turnView {
	v := &turnView{}
	v.str("sessionId", r.SessionID)
	if d := r.DialogAction; d != nil {
		if d.Type.Valid {
			v.fields = append(v.fields, viewField{"dialogActionType", string(d.Type.Value)})
		}
		v.str("intentName", d.IntentName)
		v.str("slotToElicit", d.SlotToElicit)
		v.strMap("slots", d.Slots.Map())
	}
	v.strMap("sessionAttributes", r.SessionAttributes.Map())
	v.contexts(r.ActiveContexts.Value)
	for i := range r.RecentIntentSummaryView.Value {
		s := &r.RecentIntentSummaryView.Value[i]
		summary := s.IntentName.Value
		if s.DialogActionType.Valid {
			summary += " (" + string(s.DialogActionType.Value) + ")"
		}
		if s.CheckpointLabel.Valid {
			summary += " @" + s.CheckpointLabel.Value
		}
		v.fields = append(v.fields, viewField{"recentIntent", summary})
	}
	return v
}

func snapshotView(s *sessionstore.Snapshot) *turnView {
	v := &turnView{}
	v.fields = append(v.fields, viewField{"session", s.Key.String()})
	v.str("sessionId", s.SessionID)
	v.str("intentName", s.IntentName)
	v.dialogState(s.DialogState)
	v.str("slotToElicit", s.SlotToElicit)
	v.strMap("slots", s.Slots.Map())
	v.strMap("sessionAttributes", s.SessionAttributes.Map())
	v.contexts(s.ActiveContexts.Value)
	if !s.UpdatedAt.IsZero() {
		v.fields = append(v.fields, viewField{"updatedAt", s.UpdatedAt.Format("2006-01-02 15:04:05")})
	}
	return v
}
