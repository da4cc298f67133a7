package lexruntime

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/tansive/lexruntime/internal/common/apperrors"
	"github.com/tansive/lexruntime/pkg/types"
)

var (
	contextNameRegex     = regexp.MustCompile(`^([A-Za-z]+_?)+$`)
	userIDRegex          = regexp.MustCompile(`^[0-9a-zA-Z._:-]+$`)
	checkpointLabelRegex = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
)

var (
	lexValidator  *validator.Validate
	validatorOnce sync.Once
)

// V returns the validator used by the Validate methods, with every custom tag
// and nullable type registered.
func V() *validator.Validate {
	validatorOnce.Do(func() {
		lexValidator = newValidator()
	})
	return lexValidator
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	v.RegisterCustomTypeFunc(unwrapString, types.NullableString{})
	v.RegisterCustomTypeFunc(unwrapValue[int64], types.NullableValue[int64]{})
	v.RegisterCustomTypeFunc(unwrapValue[float64], types.NullableValue[float64]{})
	v.RegisterCustomTypeFunc(unwrapValue[DialogActionType], types.NullableValue[DialogActionType]{})
	v.RegisterCustomTypeFunc(unwrapValue[FulfillmentState], types.NullableValue[FulfillmentState]{})
	v.RegisterCustomTypeFunc(unwrapValue[MessageFormat], types.NullableValue[MessageFormat]{})
	v.RegisterCustomTypeFunc(unwrapValue[ConfirmationStatus], types.NullableValue[ConfirmationStatus]{})
	v.RegisterCustomTypeFunc(unwrapValue[DialogState], types.NullableValue[DialogState]{})
	v.RegisterCustomTypeFunc(unwrapValue[ContentType], types.NullableValue[ContentType]{})
	v.RegisterCustomTypeFunc(unwrapMap[string], types.NullableMap[string]{})
	v.RegisterCustomTypeFunc(unwrapList[ActiveContext], types.NullableList[ActiveContext]{})
	v.RegisterCustomTypeFunc(unwrapList[IntentSummary], types.NullableList[IntentSummary]{})
	v.RegisterCustomTypeFunc(unwrapList[PredictedIntent], types.NullableList[PredictedIntent]{})
	v.RegisterCustomTypeFunc(unwrapList[Button], types.NullableList[Button]{})
	v.RegisterCustomTypeFunc(unwrapList[GenericAttachment], types.NullableList[GenericAttachment]{})

	v.RegisterValidation("contextname", regexValidator(contextNameRegex))
	v.RegisterValidation("userid", regexValidator(userIDRegex))
	v.RegisterValidation("checkpointlabel", regexValidator(checkpointLabelRegex))
	v.RegisterValidation("knownenum", knownEnumValidator)
	v.RegisterValidation("reservedattrs", reservedAttrsValidator)
	v.RegisterValidation("inputmedia", mediaValidator(MediaType.IsInput))
	v.RegisterValidation("outputmedia", mediaValidator(MediaType.IsOutput))

	v.RegisterStructValidation(dialogActionStructLevel, DialogAction{})
	v.RegisterStructValidation(postTextStructLevel, PostTextRequest{})
	v.RegisterStructValidation(postContentStructLevel, PostContentRequest{})
	v.RegisterStructValidation(putSessionStructLevel, PutSessionRequest{})
	return v
}

// jsonFieldName reports fields by their wire name. Fields that never appear
// in a body are reported under their lowerCamel name.
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return lowerCamel(f.Name)
	}
	return name
}

func lowerCamel(s string) string {
	if base, ok := strings.CutSuffix(s, "ID"); ok {
		s = base + "Id"
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func unwrapString(field reflect.Value) any {
	ns, ok := field.Interface().(types.NullableString)
	if !ok || ns.IsNil() {
		return nil
	}
	return ns.Value
}

func unwrapValue[T comparable](field reflect.Value) any {
	nv, ok := field.Interface().(types.NullableValue[T])
	if !ok || nv.IsNil() {
		return nil
	}
	return nv.Value
}

func unwrapMap[V comparable](field reflect.Value) any {
	nm, ok := field.Interface().(types.NullableMap[V])
	if !ok || nm.IsNil() {
		return nil
	}
	if nm.Value == nil {
		return map[string]V{}
	}
	return nm.Value
}

func unwrapList[T any](field reflect.Value) any {
	nl, ok := field.Interface().(types.NullableList[T])
	if !ok || nl.IsNil() {
		return nil
	}
	if nl.Value == nil {
		return []T{}
	}
	return nl.Value
}

func regexValidator(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func knownEnumValidator(fl validator.FieldLevel) bool {
	e, ok := fl.Field().Interface().(interface{ IsKnown() bool })
	return ok && e.IsKnown()
}

func mediaValidator(accepts func(MediaType) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		mt, err := ParseMediaType(fl.Field().String())
		return err == nil && accepts(mt)
	}
}

// reservedAttrsValidator rejects attribute keys in the reserved namespace.
// It accepts a map or JSON text; malformed JSON is left to the json tag.
func reservedAttrsValidator(fl validator.FieldLevel) bool {
	var keys []string
	switch v := fl.Field().Interface().(type) {
	case map[string]string:
		for k := range v {
			keys = append(keys, k)
		}
	case string:
		m, err := DecodeStringMap(v)
		if err != nil {
			return true
		}
		for k := range m {
			keys = append(keys, k)
		}
	}
	for _, k := range keys {
		if strings.HasPrefix(k, ReservedAttributePrefix) {
			return false
		}
	}
	return true
}

func dialogActionStructLevel(sl validator.StructLevel) {
	d := sl.Current().Interface().(DialogAction)
	t, _ := d.Type.Get()
	if d.SlotToElicit.Valid != (t == DialogActionTypeElicitSlot) {
		sl.ReportError(d.SlotToElicit, "slotToElicit", "SlotToElicit", "slotpairing", string(t))
	}
	if d.Message.Valid != d.MessageFormat.Valid {
		sl.ReportError(d.MessageFormat, "messageFormat", "MessageFormat", "messagepairing", "")
	}
}

func postTextStructLevel(sl validator.StructLevel) {
	r := sl.Current().Interface().(PostTextRequest)
	if attributesSize(r.SessionAttributes.Map(), r.RequestAttributes.Map()) > MaxAttributesSize {
		sl.ReportError(r.SessionAttributes, "sessionAttributes", "SessionAttributes", "attrsize", "")
	}
}

func postContentStructLevel(sl validator.StructLevel) {
	r := sl.Current().Interface().(PostContentRequest)
	var maps []map[string]string
	for _, text := range []types.NullableString{r.SessionAttributes, r.RequestAttributes} {
		if !text.Valid {
			continue
		}
		// malformed JSON is reported by the json tag
		m, err := DecodeStringMap(text.Value)
		if err != nil {
			return
		}
		maps = append(maps, m)
	}
	if attributesSize(maps...) > MaxAttributesSize {
		sl.ReportError(r.SessionAttributes, "sessionAttributes", "SessionAttributes", "attrsize", "")
	}
}

func putSessionStructLevel(sl validator.StructLevel) {
	r := sl.Current().Interface().(PutSessionRequest)
	if attributesSize(r.SessionAttributes.Map()) > MaxAttributesSize {
		sl.ReportError(r.SessionAttributes, "sessionAttributes", "SessionAttributes", "attrsize", "")
	}
}

// attributesSize is the combined byte length of the canonical JSON of each
// present attribute map. Nil maps count for nothing.
func attributesSize(maps ...map[string]string) int {
	n := 0
	for _, m := range maps {
		if m == nil {
			continue
		}
		text, err := EncodeStringMap(m)
		if err != nil {
			continue
		}
		n += len(text)
	}
	return n
}

// validate runs the validator over s and converts its report.
func validate(s any) error {
	err := V().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.ValidationErrors{{ErrStr: err.Error()}}
	}
	out := make(apperrors.ValidationErrors, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, apperrors.ValidationError{
			Field:  fieldPath(e.Namespace()),
			Value:  e.Value(),
			ErrStr: describe(e),
		})
	}
	return out
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "missing required attribute"
	case "min", "max":
		return fmt.Sprintf("must satisfy %s=%s", e.Tag(), e.Param())
	case "contextname":
		return "invalid context name; allowed characters: letters separated by single underscores"
	case "userid":
		return "invalid user id; allowed characters: [0-9a-zA-Z._:-]"
	case "checkpointlabel":
		return "invalid checkpoint label; allowed characters: [a-zA-Z0-9-]"
	case "knownenum":
		return fmt.Sprintf("unknown value %s", apperrors.InQuotes(fmt.Sprint(e.Value())))
	case "reservedattrs":
		return "attribute keys must not use the reserved prefix " + apperrors.InQuotes(ReservedAttributePrefix)
	case "attrsize":
		return fmt.Sprintf("attributes exceed %d bytes combined", MaxAttributesSize)
	case "slotpairing":
		return "slotToElicit must be set exactly when type is ElicitSlot"
	case "messagepairing":
		return "messageFormat must be set exactly when message is set"
	case "inputmedia":
		return "unsupported input content type"
	case "outputmedia":
		return "unsupported accept type"
	case "json":
		return "must be valid JSON"
	}
	return "validation failed: " + e.Tag()
}

// Validate checks every documented constraint. Setters never do; call this
// before sending when early rejection is wanted.
func (c *ActiveContext) Validate() error { return validate(c) }

func (d *DialogAction) Validate() error { return validate(d) }

func (s *IntentSummary) Validate() error { return validate(s) }

func (r *PostTextRequest) Validate() error { return validate(r) }

func (r *PostContentRequest) Validate() error { return validate(r) }

func (r *PutSessionRequest) Validate() error { return validate(r) }

func (r *GetSessionRequest) Validate() error { return validate(r) }

func (r *DeleteSessionRequest) Validate() error { return validate(r) }
