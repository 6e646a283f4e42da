package gemini

// Wire types for the generateContent REST endpoint. Only the fields the
// application reads or writes are modeled.

// generateRequest is the request body for models/{model}:generateContent.
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

// inlineData carries base64-encoded binary payloads. For speech
// responses MimeType describes the raw PCM stream, for example
// "audio/L16;codec=pcm;rate=24000".
type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig             *voiceConfig             `json:"voiceConfig,omitempty"`
	MultiSpeakerVoiceConfig *multiSpeakerVoiceConfig `json:"multiSpeakerVoiceConfig,omitempty"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type multiSpeakerVoiceConfig struct {
	SpeakerVoiceConfigs []speakerVoiceConfig `json:"speakerVoiceConfigs"`
}

type speakerVoiceConfig struct {
	Speaker     string      `json:"speaker"`
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

// generateResponse is the response body for models/{model}:generateContent.
type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

// deckSchema is the JSON structure the deck generation prompt asks the
// model to produce.
type deckSchema struct {
	Cards []deckCardSchema `json:"cards"`
}

type deckCardSchema struct {
	Front               string `json:"front"`
	Translation         string `json:"translation"`
	Term                string `json:"term"`
	TermTranslation     string `json:"termTranslation"`
	Phonetic            string `json:"phonetic"`
	Sentence            string `json:"sentence"`
	SentenceTranslation string `json:"sentenceTranslation"`
}
