package models

import "time"

// WebsiteStatus describes where a website is in its processing lifecycle.
type WebsiteStatus string

const (
	StatusPending    WebsiteStatus = "pending"
	StatusProcessing WebsiteStatus = "processing"
	StatusCompleted  WebsiteStatus = "completed"
	StatusFailed     WebsiteStatus = "failed"
)

// Website represents a processed (or in-flight) website record, keyed by URL
type Website struct {
	URL            string        `json:"url"`
	Categories     *Categories   `json:"categories,omitempty"`
	ProcessedPages int           `json:"processed_pages"`
	Status         WebsiteStatus `json:"status"`
	ErrorMessage   string        `json:"error_message,omitempty"`
	LastProcessed  time.Time     `json:"last_processed"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Categories is the full categorization result for one website
type Categories struct {
	PrimaryIndustry    string          `json:"primary_industry"`
	IndustryConfidence float64         `json:"industry_confidence"`
	WebsiteType        string          `json:"website_type"`
	TypeConfidence     float64         `json:"type_confidence"`
	Functionality      []string        `json:"functionality"`
	TargetAudience     string          `json:"target_audience"`
	Language           string          `json:"language,omitempty"` // ISO 639-3, empty when undetectable
	MetaInformation    MetaInformation `json:"meta_information"`
}

// MetaInformation holds the lowercased meta fields extracted from the page head
type MetaInformation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// WebsiteSummary is the projection returned by listing endpoints
type WebsiteSummary struct {
	URL             string        `json:"url"`
	Status          WebsiteStatus `json:"status"`
	PrimaryIndustry string        `json:"primary_industry,omitempty"`
	WebsiteType     string        `json:"website_type,omitempty"`
	ProcessedPages  int           `json:"processed_pages"`
	LastProcessed   time.Time     `json:"last_processed"`
}

// MessageRole restricts chat messages to the two participant roles
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Valid reports whether the role is one of the two allowed values
func (r MessageRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single chat message; messages are append-only and ordered
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// Chat is a persisted conversation owned by a user, labelled by website URL
type Chat struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	WebsiteURL string    `json:"website_url"`
	Messages   []Message `json:"messages"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// User is a registered account; PasswordHash never serializes
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegistryEntry records a previously processed URL in the registry file
type RegistryEntry struct {
	URL            string `json:"url"`
	CollectionName string `json:"collection_name"`
	Timestamp      string `json:"timestamp,omitempty"`
}
