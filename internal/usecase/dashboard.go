package usecase

import (
	"context"

	"github.com/xavierca1/lead-engine/internal/entity"
)

const (
	TimeMorning       = "Morning (9 AM - 12 PM)"
	TimeAfternoon     = "Afternoon (12 PM - 3 PM)"
	TimeLateAfternoon = "Late Afternoon (3 PM - 6 PM)"
	TimeEvening       = "Evening (6 PM - 9 PM)"
	TimeOffHours      = "Off Hours"
	TimeNoData        = "No data"
)

type DashboardOutput struct {
	TotalLeads         int            `json:"total_leads"`
	HotCount           int            `json:"hot_count"`
	WarmCount          int            `json:"warm_count"`
	ColdCount          int            `json:"cold_count"`
	SourceDistribution map[string]int `json:"source_distribution"`
	BestTimeOfDay      string         `json:"best_time_of_day"`
}

type GetDashboardUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewGetDashboardUseCase(repo entity.LeadRepositoryInterface) *GetDashboardUseCase {
	return &GetDashboardUseCase{Repo: repo}
}

func (uc *GetDashboardUseCase) Execute(ctx context.Context) (*DashboardOutput, error) {
	leads, err := uc.Repo.ListAll(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to load leads", Err: err}
	}
	return BuildDashboard(leads), nil
}

// BuildDashboard expects leads in insertion order; the best-hour tie-break
// depends on it.
func BuildDashboard(leads []entity.Lead) *DashboardOutput {
	out := &DashboardOutput{
		TotalLeads:         len(leads),
		SourceDistribution: make(map[string]int),
	}

	for _, l := range leads {
		switch l.Category {
		case entity.CategoryHot:
			out.HotCount++
		case entity.CategoryWarm:
			out.WarmCount++
		case entity.CategoryCold:
			out.ColdCount++
		}
		out.SourceDistribution[l.Source]++
	}

	hour, ok := BestHour(leads)
	if !ok {
		out.BestTimeOfDay = TimeNoData
	} else {
		out.BestTimeOfDay = TimeOfDayLabel(hour)
	}
	return out
}

// BestHour is the hour of day with the most parseable timestamps. Ties go to
// the hour that appeared first.
func BestHour(leads []entity.Lead) (int, bool) {
	var (
		counts    [24]int
		firstSeen [24]int
		order     int
	)
	for i := range firstSeen {
		firstSeen[i] = -1
	}

	for _, l := range leads {
		t, ok := entity.ParseTimestamp(l.Timestamp)
		if !ok {
			continue
		}
		h := t.Hour()
		if firstSeen[h] < 0 {
			firstSeen[h] = order
			order++
		}
		counts[h]++
	}

	best := -1
	for h := 0; h < 24; h++ {
		if counts[h] == 0 {
			continue
		}
		if best < 0 || counts[h] > counts[best] ||
			(counts[h] == counts[best] && firstSeen[h] < firstSeen[best]) {
			best = h
		}
	}
	return best, best >= 0
}

func TimeOfDayLabel(hour int) string {
	switch {
	case hour >= 9 && hour < 12:
		return TimeMorning
	case hour >= 12 && hour < 15:
		return TimeAfternoon
	case hour >= 15 && hour < 18:
		return TimeLateAfternoon
	case hour >= 18 && hour < 21:
		return TimeEvening
	default:
		return TimeOffHours
	}
}
