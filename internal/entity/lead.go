package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrLeadNotFound  = errors.New("lead not found")
	ErrDuplicateLead = errors.New("lead id already exists")
)

type Category string

const (
	CategoryHot  Category = "Hot"
	CategoryWarm Category = "Warm"
	CategoryCold Category = "Cold"
)

// RawLead is one ingested row before scoring.
type RawLead struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email,omitempty"`
	Source          string `json:"source"`
	ServiceInterest string `json:"service_interest"`
	Location        string `json:"location"`
	Timestamp       string `json:"timestamp"` // ISO-8601, kept as declared
}

type Lead struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email,omitempty"`
	Source          string    `json:"source"`
	ServiceInterest string    `json:"service_interest"`
	Location        string    `json:"location"`
	Timestamp       string    `json:"timestamp"`
	Score           int       `json:"score"`
	Category        Category  `json:"category"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewLead assigns the identity and the derived attributes. Nothing mutates
// a Lead after this point.
func NewLead(raw RawLead, rules *ScoringRules) *Lead {
	score, category := rules.Score(raw)

	return &Lead{
		ID:              uuid.New().String(),
		Name:            strings.TrimSpace(raw.Name),
		Phone:           strings.TrimSpace(raw.Phone),
		Email:           strings.TrimSpace(raw.Email),
		Source:          strings.TrimSpace(raw.Source),
		ServiceInterest: strings.TrimSpace(raw.ServiceInterest),
		Location:        strings.TrimSpace(raw.Location),
		Timestamp:       strings.TrimSpace(raw.Timestamp),
		Score:           score,
		Category:        category,
		CreatedAt:       time.Now().UTC(),
	}
}

func (l Lead) Raw() RawLead {
	return RawLead{
		Name:            l.Name,
		Phone:           l.Phone,
		Email:           l.Email,
		Source:          l.Source,
		ServiceInterest: l.ServiceInterest,
		Location:        l.Location,
		Timestamp:       l.Timestamp,
	}
}

// LeadRepositoryInterface owns the lead collection. Implementations hand out
// copies, never references into their own storage.
type LeadRepositoryInterface interface {
	InsertMany(ctx context.Context, leads []Lead) ([]string, error)
	ListAll(ctx context.Context) ([]Lead, error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	Clear(ctx context.Context) (int, error)
}
