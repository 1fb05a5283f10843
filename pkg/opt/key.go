package opt

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Generation keys
const (
	SystemPromptKey     = "system"
	TemperatureKey      = "temperature"
	MaxTokensKey        = "max_tokens"
	TopKKey             = "top_k"
	TopPKey             = "top_p"
	StopSequencesKey    = "stop"
	SeedKey             = "seed"
	ThinkingKey         = "thinking"
	ThinkingBudgetKey   = "thinking_budget"
	JSONSchemaKey       = "json_schema"
	ResponseMIMETypeKey = "response_mime_type"
	ModalitiesKey       = "modalities"
	CachedContentKey    = "cached_content"
	ToolsKey            = "tools"
	ToolModeKey         = "tool_mode"
	SafetyKey           = "safety"
	StreamKey           = "stream"
	ContentKey          = "content"
)

// Embedding keys
const (
	TaskTypeKey             = "task_type"
	TitleKey                = "title"
	OutputDimensionalityKey = "output_dimensionality"
)

// Files, caches and media keys
const (
	PageSizeKey         = "pageSize"
	PageTokenKey        = "pageToken"
	DisplayNameKey      = "display_name"
	MIMETypeKey         = "mime_type"
	TTLKey              = "ttl"
	LanguageKey         = "language"
	PromptKey           = "prompt"
	AspectRatioKey      = "aspect_ratio"
	SampleCountKey      = "sample_count"
	PersonGenerationKey = "person_generation"
	StartOffsetKey      = "start_offset"
	EndOffsetKey        = "end_offset"
)
