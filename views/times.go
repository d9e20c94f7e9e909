// Package views computes the derived read shapes: best times and deltas
// against corner targets, video embeds and profile statistics.
package views

import (
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/Porx312/ProjectD/models"
)

// BestTime is the fastest of the given times, or nil when there are none.
func BestTime(times []models.UserTime) *float64 {
	if len(times) == 0 {
		return nil
	}
	best := lo.MinBy(times, func(a, b models.UserTime) bool {
		return a.UserTime < b.UserTime
	}).UserTime
	return &best
}

// Delta is best minus target, rounded to milliseconds. Negative means faster
// than the target. Nil when there is no best time.
func Delta(best *float64, target float64) *float64 {
	if best == nil {
		return nil
	}
	d := math.Round((*best-target)*1000) / 1000
	return &d
}

// CornerProgress is a corner with one user's best attempt against its target.
type CornerProgress struct {
	models.Corner
	Attempts int      `json:"attempts"`
	BestTime *float64 `json:"bestTime"`
	Delta    *float64 `json:"delta"`
}

// BuildCornerProgress pairs each corner with the user's times on it. Corner
// order is kept.
func BuildCornerProgress(corners []models.Corner, times []models.UserTime) []CornerProgress {
	byCorner := lo.GroupBy(times, func(t models.UserTime) string { return t.CornerID })
	return lo.Map(corners, func(c models.Corner, _ int) CornerProgress {
		ts := byCorner[c.ID]
		best := BestTime(ts)
		return CornerProgress{
			Corner:   c,
			Attempts: len(ts),
			BestTime: best,
			Delta:    Delta(best, c.TargetTime),
		}
	})
}

// CornerDetail is the single corner view: its reference video and the
// caller's attempts.
type CornerDetail struct {
	models.Corner
	EmbedURL *string           `json:"embedUrl"`
	Times    []models.UserTime `json:"times"`
	BestTime *float64          `json:"bestTime"`
	Delta    *float64          `json:"delta"`
}

func BuildCornerDetail(c models.Corner, times []models.UserTime) CornerDetail {
	if times == nil {
		times = []models.UserTime{}
	}
	best := BestTime(times)
	return CornerDetail{
		Corner:   c,
		EmbedURL: EmbedURL(c.YoutubeURL),
		Times:    times,
		BestTime: best,
		Delta:    Delta(best, c.TargetTime),
	}
}

// TimeDetail is a recorded time joined with its corner and track.
type TimeDetail struct {
	models.UserTime
	Corner models.Corner `json:"corner"`
	Track  models.Track  `json:"track"`
}

// ProfileStats aggregates a user's recorded times. BestTime and AverageTime
// are zero when there are no times.
type ProfileStats struct {
	TotalTimes   int     `json:"totalTimes"`
	BestTime     float64 `json:"bestTime"`
	AverageTime  float64 `json:"averageTime"`
	RecentTimes  int     `json:"recentTimes"`
	TargetsHit   int     `json:"targetsHit"`
	UniqueTracks int     `json:"uniqueTracks"`
}

// BuildProfileStats computes the stats as of now. Recent times are those
// created less than 24 hours before now.
func BuildProfileStats(now time.Time, details []TimeDetail) ProfileStats {
	stats := ProfileStats{TotalTimes: len(details)}
	if len(details) == 0 {
		return stats
	}
	values := lo.Map(details, func(d TimeDetail, _ int) float64 { return d.UserTime.UserTime })
	stats.BestTime = lo.Min(values)
	stats.AverageTime = lo.Sum(values) / float64(len(values))
	stats.RecentTimes = lo.CountBy(details, func(d TimeDetail) bool {
		return now.Sub(d.CreatedAt) < 24*time.Hour
	})
	stats.TargetsHit = lo.CountBy(details, func(d TimeDetail) bool {
		return d.UserTime.UserTime <= d.Corner.TargetTime
	})
	stats.UniqueTracks = len(lo.UniqBy(details, func(d TimeDetail) string { return d.Track.ID }))
	return stats
}
