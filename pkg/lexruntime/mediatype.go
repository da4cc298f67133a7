package lexruntime

import (
	"fmt"
	"mime"
	"strings"
)

// MediaFamily groups the media types accepted for input and output audio.
type MediaFamily string

const (
	MediaFamilyUnknown MediaFamily = ""
	MediaFamilyPCM     MediaFamily = "pcm"
	MediaFamilyOpus    MediaFamily = "opus"
	MediaFamilyText    MediaFamily = "text"
	MediaFamilyMPEG    MediaFamily = "mpeg"
	MediaFamilyOgg     MediaFamily = "ogg"
)

// Common content types.
const (
	MediaTextPlain = "text/plain; charset=utf-8"
	MediaMPEG      = "audio/mpeg"
	MediaOgg       = "audio/ogg"
	MediaPCM       = "audio/pcm"
	MediaAnyAudio  = "audio/*"
)

var mediaFamilies = map[string]MediaFamily{
	"audio/l16":                      MediaFamilyPCM,
	"audio/x-l16":                    MediaFamilyPCM,
	"audio/lpcm":                     MediaFamilyPCM,
	"audio/pcm":                      MediaFamilyPCM,
	"audio/x-cbr-opus-with-preamble": MediaFamilyOpus,
	"text/plain":                     MediaFamilyText,
	"audio/mpeg":                     MediaFamilyMPEG,
	"audio/ogg":                      MediaFamilyOgg,
}

// MediaType is a parsed Content-Type or Accept value.
type MediaType struct {
	MIME   string
	Family MediaFamily
	Params map[string]string
}

// ParseMediaType classifies a Content-Type or Accept header value. Parameter
// names are lower-cased. Unrecognised types parse with MediaFamilyUnknown.
func ParseMediaType(value string) (MediaType, error) {
	mt, params, err := mime.ParseMediaType(value)
	if err != nil {
		return MediaType{}, ErrInvalidHeader.MsgErr(fmt.Sprintf("invalid media type %q", value), err)
	}
	if mt == MediaAnyAudio {
		mt = MediaMPEG
	}
	return MediaType{
		MIME:   mt,
		Family: mediaFamilies[mt],
		Params: params,
	}, nil
}

// IsInput reports whether the type may be sent as PostContent input.
func (m MediaType) IsInput() bool {
	switch m.Family {
	case MediaFamilyPCM:
		return m.MIME != "audio/pcm"
	case MediaFamilyOpus:
		return true
	case MediaFamilyText:
		return charsetIsUTF8(m.Params)
	}
	return false
}

// IsOutput reports whether the type may be requested in Accept.
func (m MediaType) IsOutput() bool {
	switch m.Family {
	case MediaFamilyMPEG, MediaFamilyOgg, MediaFamilyPCM:
		return true
	case MediaFamilyText:
		return charsetIsUTF8(m.Params)
	}
	return false
}

// IsAudio reports whether the type carries audio rather than text.
func (m MediaType) IsAudio() bool {
	return m.Family != MediaFamilyText && m.Family != MediaFamilyUnknown
}

func charsetIsUTF8(params map[string]string) bool {
	cs, ok := params["charset"]
	return !ok || strings.EqualFold(cs, "utf-8")
}

// ResolveAccept returns the concrete output type for an Accept value;
// "audio/*" and an empty value resolve to audio/mpeg.
func ResolveAccept(accept string) string {
	if accept == "" || accept == MediaAnyAudio {
		return MediaMPEG
	}
	return accept
}

// PCMContentType returns a 16-bit little-endian mono PCM content type at the
// given sample rate (8000 or 16000 Hz).
func PCMContentType(sampleRate int) string {
	return fmt.Sprintf("audio/l16; rate=%d; channels=1", sampleRate)
}

// LPCMContentType returns a signed little-endian LPCM content type.
func LPCMContentType(sampleRate, sampleSizeBits int) string {
	return fmt.Sprintf("audio/lpcm; sample-rate=%d; sample-size-bits=%d; channel-count=1; is-big-endian=false", sampleRate, sampleSizeBits)
}

// OpusContentType returns a constant bit rate Opus content type.
func OpusContentType(bitRate, frameSizeMillis int) string {
	return fmt.Sprintf("audio/x-cbr-opus-with-preamble; preamble-size=0; bit-rate=%d; frame-size-milliseconds=%d", bitRate, frameSizeMillis)
}
