package domain

import "time"

// Mode selects how generation parameters are chosen.
type Mode string

const (
	// ModeAI lets the parameter suggester fill unset parameters.
	ModeAI Mode = "ai"

	// ModeManual uses exactly the parameters given in the request.
	ModeManual Mode = "manual"
)

// Status is the lifecycle state of a generation.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

const (
	// DefaultUserID is used when a request does not name a user.
	DefaultUserID int64 = 1

	// DefaultMaxRetries is used when a request does not set max_retries.
	DefaultMaxRetries = 3
)

// GenerationRequest is a single image generation request.
type GenerationRequest struct {
	Prompt     string     `json:"prompt"`
	Mode       Mode       `json:"mode,omitempty"`
	Parameters Parameters `json:"parameters"`
	UserID     int64      `json:"user_id,omitempty"`
	ProjectID  *int64     `json:"project_id,omitempty"`

	// UseCache defaults to true when omitted.
	UseCache *bool `json:"use_cache,omitempty"`

	// MaxRetries defaults to DefaultMaxRetries when omitted.
	MaxRetries *int `json:"max_retries,omitempty"`
}

// CacheEnabled reports whether the request may be served from or stored in the cache.
func (r *GenerationRequest) CacheEnabled() bool {
	return r.UseCache == nil || *r.UseCache
}

// RetryBudget returns the number of retries allowed after the first attempt.
func (r *GenerationRequest) RetryBudget() int {
	if r.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *r.MaxRetries
}

// GenerationResult is the outcome of a generation request.
type GenerationResult struct {
	ID           string     `json:"id"`
	Status       Status     `json:"status"`
	OutputRef    string     `json:"output_reference"`
	Parameters   Parameters `json:"parameters"`
	QualityScore float64    `json:"quality_score"`
	ElapsedTime  float64    `json:"elapsed_time"` // seconds
	Cached       bool       `json:"cached"`
	RetryCount   int        `json:"retry_count"`
	Fingerprint  string     `json:"fingerprint"`
	Reasoning    string     `json:"reasoning,omitempty"`
	CompletedAt  time.Time  `json:"completed_at"`
}

// BatchRequest is an ordered list of generation requests.
type BatchRequest struct {
	Requests []GenerationRequest `json:"requests"`

	// Parallel defaults to true when omitted.
	Parallel *bool `json:"parallel,omitempty"`

	// ContinueOnError defaults to true when omitted.
	ContinueOnError *bool `json:"continue_on_error,omitempty"`
}

// IsParallel reports whether items are dispatched concurrently.
func (b *BatchRequest) IsParallel() bool {
	return b.Parallel == nil || *b.Parallel
}

// ShouldContinueOnError reports whether a failing item lets later items run.
func (b *BatchRequest) ShouldContinueOnError() bool {
	return b.ContinueOnError == nil || *b.ContinueOnError
}

// ItemStatus is the outcome of one batch item.
type ItemStatus string

const (
	ItemSucceeded ItemStatus = "succeeded"
	ItemFailed    ItemStatus = "failed"
	ItemSkipped   ItemStatus = "skipped"
)

// BatchResult aggregates the outcome of a batch. Results, Errors and Statuses are
// aligned with the request order.
type BatchResult struct {
	Total      int                 `json:"total"`
	Successful int                 `json:"successful"`
	Failed     int                 `json:"failed"`
	Skipped    int                 `json:"skipped"`
	Results    []*GenerationResult `json:"results"`
	Errors     []*string           `json:"errors"`
	Statuses   []ItemStatus        `json:"statuses"`
}

// HistoryRecord is a persisted generation attempt.
type HistoryRecord struct {
	ID             string     `json:"id"`
	UserID         int64      `json:"user_id"`
	ProjectID      *int64     `json:"project_id,omitempty"`
	Prompt         string     `json:"prompt"`
	Mode           Mode       `json:"mode"`
	Status         Status     `json:"status"`
	Parameters     Parameters `json:"parameters"`
	OutputRef      string     `json:"output_reference,omitempty"`
	QualityScore   *float64   `json:"quality_score,omitempty"`
	GenerationTime *float64   `json:"generation_time,omitempty"`
	RetryCount     int        `json:"retry_count"`
	Fingerprint    string     `json:"fingerprint"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// HistoryPage is one page of history records, most recent first.
type HistoryPage struct {
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	Records []HistoryRecord `json:"results"`
}

// StatsSummary summarizes history over a time window.
type StatsSummary struct {
	PeriodDays            int            `json:"period_days"`
	TotalGenerations      int            `json:"total_generations"`
	StatusBreakdown       map[string]int `json:"status_breakdown"`
	ModeBreakdown         map[string]int `json:"mode_breakdown"`
	AverageGenerationTime float64        `json:"average_generation_time"`
	AverageQualityScore   float64        `json:"average_quality_score"`
	SuccessRate           float64        `json:"success_rate"`
}

// CachedResult is a generation result held by a ResultCache.
type CachedResult struct {
	Result   GenerationResult `json:"result"`
	CachedAt time.Time        `json:"cached_at"`
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	HitCount       int64   `json:"hit_count"`
	MissCount      int64   `json:"miss_count"`
	ValidEntries   int64   `json:"valid_entries"`
	ExpiredEntries int64   `json:"expired_entries"`
	TTLHours       float64 `json:"ttl_hours"`
}
