package lexruntime

import "github.com/tansive/lexruntime/pkg/types"

// Button is a clickable option on a response card.
type Button struct {
	Text  types.NullableString `json:"text,omitzero" validate:"required,min=1,max=15"`
	Value types.NullableString `json:"value,omitzero" validate:"required,min=1,max=1000"`
}

func (b *Button) Equal(other *Button) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.Text.Equals(other.Text) && b.Value.Equals(other.Value)
}

func (b *Button) Hash() uint64 {
	if b == nil {
		return 0
	}
	return types.HashFields(b.Text.Hash(), b.Value.Hash())
}

func (b *Button) String() string {
	w := newFieldWriter()
	w.str("Text", b.Text)
	w.str("Value", b.Value)
	return w.String()
}

// GenericAttachment is one card of a response card.
type GenericAttachment struct {
	Title             types.NullableString       `json:"title,omitzero"`
	SubTitle          types.NullableString       `json:"subTitle,omitzero"`
	AttachmentLinkURL types.NullableString       `json:"attachmentLinkUrl,omitzero"`
	ImageURL          types.NullableString       `json:"imageUrl,omitzero"`
	Buttons           types.NullableList[Button] `json:"buttons,omitzero"`
}

func (a *GenericAttachment) Equal(other *GenericAttachment) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Title.Equals(other.Title) &&
		a.SubTitle.Equals(other.SubTitle) &&
		a.AttachmentLinkURL.Equals(other.AttachmentLinkURL) &&
		a.ImageURL.Equals(other.ImageURL) &&
		a.Buttons.EqualFunc(other.Buttons, (*Button).Equal)
}

func (a *GenericAttachment) Hash() uint64 {
	if a == nil {
		return 0
	}
	return types.HashFields(
		a.Title.Hash(),
		a.SubTitle.Hash(),
		a.AttachmentLinkURL.Hash(),
		a.ImageURL.Hash(),
		a.Buttons.HashFunc((*Button).Hash),
	)
}

func (a *GenericAttachment) String() string {
	w := newFieldWriter()
	w.str("Title", a.Title)
	w.str("SubTitle", a.SubTitle)
	w.str("AttachmentLinkUrl", a.AttachmentLinkURL)
	w.str("ImageUrl", a.ImageURL)
	writeList(w, "Buttons", a.Buttons, (*Button).String)
	return w.String()
}

// ResponseCard is an optional UI affordance returned with a prompt.
type ResponseCard struct {
	Version            types.NullableString                  `json:"version,omitzero"`
	ContentType        types.NullableValue[ContentType]      `json:"contentType,omitzero"`
	GenericAttachments types.NullableList[GenericAttachment] `json:"genericAttachments,omitzero"`
}

func (c *ResponseCard) Equal(other *ResponseCard) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Version.Equals(other.Version) &&
		c.ContentType.Equals(other.ContentType) &&
		c.GenericAttachments.EqualFunc(other.GenericAttachments, (*GenericAttachment).Equal)
}

func (c *ResponseCard) Hash() uint64 {
	if c == nil {
		return 0
	}
	return types.HashFields(
		c.Version.Hash(),
		c.ContentType.Hash(),
		c.GenericAttachments.HashFunc((*GenericAttachment).Hash),
	)
}

func (c *ResponseCard) String() string {
	if c == nil {
		return "<nil>"
	}
	w := newFieldWriter()
	w.str("Version", c.Version)
	writeValue(w, "ContentType", c.ContentType)
	writeList(w, "GenericAttachments", c.GenericAttachments, (*GenericAttachment).String)
	return w.String()
}
