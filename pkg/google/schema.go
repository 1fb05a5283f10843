package google

import (
	"encoding/base64"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES - Gemini REST API wire format
//
// Reference: https://ai.google.dev/api/generate-content
//            https://ai.google.dev/api/caching
//            https://ai.google.dev/api/files

///////////////////////////////////////////////////////////////////////////////
// CONTENT & PARTS

// Content is one turn of a conversation, made of one or more parts
type Content struct {
	Role  string  `json:"role,omitempty"`
	Parts []*Part `json:"parts"`
}

// Part is a single unit of content. One of the data fields is set.
type Part struct {
	Thought          bool   `json:"thought,omitempty"`
	ThoughtSignature string `json:"thoughtSignature,omitempty"`

	Text                string               `json:"text,omitempty"`
	InlineData          *Blob                `json:"inlineData,omitempty"`
	FileData            *FileData            `json:"fileData,omitempty"`
	FunctionCall        *FunctionCall        `json:"functionCall,omitempty"`
	FunctionResponse    *FunctionResponse    `json:"functionResponse,omitempty"`
	ExecutableCode      *ExecutableCode      `json:"executableCode,omitempty"`
	CodeExecutionResult *CodeExecutionResult `json:"codeExecutionResult,omitempty"`

	// Clipping for video parts
	VideoMetadata *VideoMetadata `json:"videoMetadata,omitempty"`
}

// Blob is inline media, base64-encoded
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// FileData references media by URI, from the Files API or YouTube
type FileData struct {
	MIMEType string `json:"mimeType,omitempty"`
	URI      string `json:"fileUri"`
}

type FunctionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

type FunctionResponse struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type ExecutableCode struct {
	Language string `json:"language,omitempty"`
	Code     string `json:"code"`
}

type CodeExecutionResult struct {
	Outcome string `json:"outcome,omitempty"`
	Output  string `json:"output,omitempty"`
}

// VideoMetadata clips a video part. Offsets are durations such as "30s".
type VideoMetadata struct {
	StartOffset string  `json:"startOffset,omitempty"`
	EndOffset   string  `json:"endOffset,omitempty"`
	FPS         float64 `json:"fps,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// TOOLS & SAFETY

// Tool is a capability the model may use while generating
type Tool struct {
	FunctionDeclarations []*FunctionDeclaration `json:"functionDeclarations,omitempty"`
	GoogleSearch         *struct{}              `json:"googleSearch,omitempty"`
	URLContext           *struct{}              `json:"urlContext,omitempty"`
	CodeExecution        *struct{}              `json:"codeExecution,omitempty"`
}

// FunctionDeclaration describes a function the model may call
type FunctionDeclaration struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parametersJsonSchema,omitempty"`
}

type toolConfig struct {
	FunctionCallingConfig *functionCallingConfig `json:"functionCallingConfig,omitempty"`
}

type functionCallingConfig struct {
	Mode                 string   `json:"mode,omitempty"`
	AllowedFunctionNames []string `json:"allowedFunctionNames,omitempty"`
}

// SafetySetting sets the blocking threshold for one harm category
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type SafetyRating struct {
	Category    string `json:"category"`
	Probability string `json:"probability"`
	Blocked     bool   `json:"blocked,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// GENERATE CONTENT

type generateRequest struct {
	Contents          []*Content       `json:"contents"`
	Tools             []*Tool          `json:"tools,omitempty"`
	ToolConfig        *toolConfig      `json:"toolConfig,omitempty"`
	SafetySettings    []*SafetySetting `json:"safetySettings,omitempty"`
	SystemInstruction *Content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig,omitzero"`
	CachedContent     string           `json:"cachedContent,omitempty"`
}

type generationConfig struct {
	StopSequences      []string        `json:"stopSequences,omitempty"`
	ResponseMIMEType   string          `json:"responseMimeType,omitempty"`
	ResponseJSONSchema any             `json:"responseJsonSchema,omitempty"`
	ResponseModalities []string        `json:"responseModalities,omitempty"`
	CandidateCount     int             `json:"candidateCount,omitempty"`
	MaxOutputTokens    int             `json:"maxOutputTokens,omitempty"`
	Temperature        *float64        `json:"temperature,omitempty"`
	TopP               *float64        `json:"topP,omitempty"`
	TopK               *int            `json:"topK,omitempty"`
	Seed               *int            `json:"seed,omitempty"`
	ThinkingConfig     *thinkingConfig `json:"thinkingConfig,omitempty"`
}

type thinkingConfig struct {
	IncludeThoughts bool `json:"includeThoughts,omitempty"`
	ThinkingBudget  *int `json:"thinkingBudget,omitempty"`
}

type generateResponse struct {
	Candidates     []*Candidate    `json:"candidates,omitempty"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *UsageMetadata  `json:"usageMetadata,omitempty"`
	ModelVersion   string          `json:"modelVersion,omitempty"`
	ResponseID     string          `json:"responseId,omitempty"`
}

// Candidate is one generated response
type Candidate struct {
	Content            *Content            `json:"content,omitempty"`
	FinishReason       string              `json:"finishReason,omitempty"`
	SafetyRatings      []*SafetyRating     `json:"safetyRatings,omitempty"`
	GroundingMetadata  *GroundingMetadata  `json:"groundingMetadata,omitempty"`
	URLContextMetadata *URLContextMetadata `json:"urlContextMetadata,omitempty"`
	Index              int                 `json:"index,omitempty"`
}

// PromptFeedback reports whether the prompt itself was blocked
type PromptFeedback struct {
	BlockReason   string          `json:"blockReason,omitempty"`
	SafetyRatings []*SafetyRating `json:"safetyRatings,omitempty"`
}

type UsageMetadata struct {
	PromptTokenCount        uint `json:"promptTokenCount,omitempty"`
	CachedContentTokenCount uint `json:"cachedContentTokenCount,omitempty"`
	CandidatesTokenCount    uint `json:"candidatesTokenCount,omitempty"`
	ThoughtsTokenCount      uint `json:"thoughtsTokenCount,omitempty"`
	TotalTokenCount         uint `json:"totalTokenCount,omitempty"`
}

// GroundingMetadata lists the web sources used by Google Search grounding
type GroundingMetadata struct {
	WebSearchQueries []string          `json:"webSearchQueries,omitempty"`
	GroundingChunks  []*GroundingChunk `json:"groundingChunks,omitempty"`
	SearchEntryPoint *struct {
		RenderedContent string `json:"renderedContent,omitempty"`
	} `json:"searchEntryPoint,omitempty"`
}

type GroundingChunk struct {
	Web *struct {
		URI   string `json:"uri"`
		Title string `json:"title,omitempty"`
	} `json:"web,omitempty"`
}

// URLContextMetadata reports the retrieval status of each URL read by the
// URL context tool
type URLContextMetadata struct {
	URLMetadata []*struct {
		RetrievedURL string `json:"retrievedUrl"`
		Status       string `json:"urlRetrievalStatus"`
	} `json:"urlMetadata,omitempty"`
}

const (
	finishReasonStop        = "STOP"
	finishReasonMaxTokens   = "MAX_TOKENS"
	finishReasonSafety      = "SAFETY"
	finishReasonRecitation  = "RECITATION"
	finishReasonBlocklist   = "BLOCKLIST"
	finishReasonProhibited  = "PROHIBITED_CONTENT"
	finishReasonSPII        = "SPII"
	finishReasonImageSafety = "IMAGE_SAFETY"
)

///////////////////////////////////////////////////////////////////////////////
// MODELS

type modelResource struct {
	Name                       string   `json:"name"`
	BaseModelID                string   `json:"baseModelId,omitempty"`
	Version                    string   `json:"version,omitempty"`
	DisplayName                string   `json:"displayName,omitempty"`
	Description                string   `json:"description,omitempty"`
	InputTokenLimit            uint     `json:"inputTokenLimit,omitempty"`
	OutputTokenLimit           uint     `json:"outputTokenLimit,omitempty"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods,omitempty"`
	Thinking                   bool     `json:"thinking,omitempty"`
	Temperature                float64  `json:"temperature,omitempty"`
	MaxTemperature             float64  `json:"maxTemperature,omitempty"`
	TopP                       float64  `json:"topP,omitempty"`
	TopK                       int      `json:"topK,omitempty"`
}

type listModelsResponse struct {
	Models        []*modelResource `json:"models"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// EMBEDDINGS

type embedRequest struct {
	Model                string   `json:"model,omitempty"`
	Content              *Content `json:"content"`
	TaskType             string   `json:"taskType,omitempty"`
	Title                string   `json:"title,omitempty"`
	OutputDimensionality uint     `json:"outputDimensionality,omitempty"`
}

type embedResponse struct {
	Embedding *embedding `json:"embedding"`
}

type batchEmbedRequest struct {
	Requests []*embedRequest `json:"requests"`
}

type batchEmbedResponse struct {
	Embeddings []*embedding `json:"embeddings"`
}

type embedding struct {
	Values []float64 `json:"values"`
}

///////////////////////////////////////////////////////////////////////////////
// FILES

type fileResource struct {
	Name           string       `json:"name"`
	DisplayName    string       `json:"displayName,omitempty"`
	MIMEType       string       `json:"mimeType,omitempty"`
	SizeBytes      int64        `json:"sizeBytes,omitempty,string"`
	CreateTime     string       `json:"createTime,omitempty"`
	UpdateTime     string       `json:"updateTime,omitempty"`
	ExpirationTime string       `json:"expirationTime,omitempty"`
	SHA256Hash     string       `json:"sha256Hash,omitempty"`
	URI            string       `json:"uri,omitempty"`
	State          string       `json:"state,omitempty"`
	Error          *errorStatus `json:"error,omitempty"`
}

type fileEnvelope struct {
	File *fileResource `json:"file"`
}

type listFilesResponse struct {
	Files         []*fileResource `json:"files"`
	NextPageToken string          `json:"nextPageToken,omitempty"`
}

type errorStatus struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// CACHED CONTENT

type cacheRequest struct {
	Model             string     `json:"model,omitempty"`
	DisplayName       string     `json:"displayName,omitempty"`
	SystemInstruction *Content   `json:"systemInstruction,omitempty"`
	Contents          []*Content `json:"contents,omitempty"`
	Tools             []*Tool    `json:"tools,omitempty"`
	TTL               string     `json:"ttl,omitempty"`
}

type cacheResource struct {
	Name          string `json:"name"`
	DisplayName   string `json:"displayName,omitempty"`
	Model         string `json:"model,omitempty"`
	CreateTime    string `json:"createTime,omitempty"`
	UpdateTime    string `json:"updateTime,omitempty"`
	ExpireTime    string `json:"expireTime,omitempty"`
	UsageMetadata *struct {
		TotalTokenCount uint `json:"totalTokenCount,omitempty"`
	} `json:"usageMetadata,omitempty"`
}

type listCachesResponse struct {
	CachedContents []*cacheResource `json:"cachedContents"`
	NextPageToken  string           `json:"nextPageToken,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// IMAGEN

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount      int    `json:"sampleCount"`
	AspectRatio      string `json:"aspectRatio,omitempty"`
	PersonGeneration string `json:"personGeneration,omitempty"`
}

type predictResponse struct {
	Predictions []*struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MIMEType           string `json:"mimeType"`
	} `json:"predictions"`
}

///////////////////////////////////////////////////////////////////////////////
// PART CONSTRUCTORS

// NewContent returns a content turn made of the given parts
func NewContent(role string, parts ...*Part) *Content {
	return &Content{Role: role, Parts: parts}
}

// TextPart returns a part holding text
func TextPart(text string) *Part {
	return &Part{Text: text}
}

// InlinePart returns a part holding media bytes
func InlinePart(mimetype string, data []byte) *Part {
	return &Part{InlineData: &Blob{
		MIMEType: mimetype,
		Data:     base64.StdEncoding.EncodeToString(data),
	}}
}

// FilePart returns a part which references media by URI
func FilePart(mimetype, uri string) *Part {
	return &Part{FileData: &FileData{MIMEType: mimetype, URI: uri}}
}

// FunctionResponsePart returns a part holding the result of a function call
func FunctionResponsePart(name string, response map[string]any) *Part {
	return &Part{FunctionResponse: &FunctionResponse{Name: name, Response: response}}
}
