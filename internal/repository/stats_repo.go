package repository

import (
	"context"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

// StatsRepo reads warehoused daily analytics rows and assembles the raw,
// partially populated bundle for one channel and range. Sections with no
// rows in the range are left nil for downstream synthesis to fill.
type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// FetchChannelAnalytics builds the raw bundle for a channel over a range.
// DailyData covers every day of the range in ascending order; days with no
// warehouse row are zero-filled.
func (r *StatsRepo) FetchChannelAnalytics(ctx context.Context, channelID string, rng model.DateRange) (*model.AnalyticsBundle, error) {
	var name string
	var monetized bool
	err := r.pool.QueryRow(ctx, `
		SELECT name, monetized FROM channels WHERE channel_id = $1`, channelID).
		Scan(&name, &monetized)
	if err != nil {
		return nil, err
	}

	bundle := &model.AnalyticsBundle{
		ChannelID:   channelID,
		ChannelName: name,
		Range:       rng,
	}

	if err := r.loadBasic(ctx, channelID, rng, bundle); err != nil {
		return nil, err
	}
	if err := r.loadEngagement(ctx, channelID, rng, bundle); err != nil {
		return nil, err
	}
	if err := r.loadRevenue(ctx, channelID, rng, bundle, monetized); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (r *StatsRepo) loadBasic(ctx context.Context, channelID string, rng model.DateRange, bundle *model.AnalyticsBundle) error {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(day, 'YYYY-MM-DD'), views, watch_time_minutes,
		       subscribers_gained, subscribers_lost
		FROM channel_stats_daily
		WHERE channel_id = $1 AND day BETWEEN $2 AND $3
		ORDER BY day ASC`, channelID, rng.Start, rng.End)
	if err != nil {
		return err
	}
	defer rows.Close()

	byDay := make(map[string]model.DailyStat)
	for rows.Next() {
		var d model.DailyStat
		if err := rows.Scan(&d.Date, &d.Views, &d.WatchTimeMinutes, &d.SubscribersGained, &d.SubscribersLost); err != nil {
			return err
		}
		byDay[d.Date] = d
	}
	if err := rows.Err(); err != nil {
		return err
	}

	start, err := time.Parse(model.DateLayout, rng.Start)
	if err != nil {
		return err
	}

	daily := make([]model.DailyStat, 0, rng.Days())
	totals := &bundle.Basic.Totals
	for i := 0; i < rng.Days(); i++ {
		date := start.AddDate(0, 0, i).Format(model.DateLayout)
		d, ok := byDay[date]
		if !ok {
			d = model.DailyStat{Date: date}
		}
		daily = append(daily, d)
		totals.TotalViews += d.Views
		totals.TotalWatchTime += d.WatchTimeMinutes
		totals.TotalSubscribersGained += d.SubscribersGained
		totals.TotalSubscribersLost += d.SubscribersLost
	}
	bundle.Basic.DailyData = daily
	return nil
}

func (r *StatsRepo) loadEngagement(ctx context.Context, channelID string, rng model.DateRange, bundle *model.AnalyticsBundle) error {
	var likes, dislikes, comments, shares int64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(likes), 0), COALESCE(SUM(dislikes), 0),
		       COALESCE(SUM(comments), 0), COALESCE(SUM(shares), 0)
		FROM channel_engagement_daily
		WHERE channel_id = $1 AND day BETWEEN $2 AND $3
		HAVING COUNT(*) > 0`, channelID, rng.Start, rng.End).
		Scan(&likes, &dislikes, &comments, &shares)
	if err == pgx.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	views := bundle.Basic.Totals.TotalViews
	var rate float64
	if views > 0 {
		rate = roundRate(float64(likes+comments+shares) / float64(views) * 100)
	}
	ratio := float64(likes)
	if dislikes > 0 {
		ratio = roundRate(float64(likes) / float64(dislikes))
	}
	bundle.Engagement = &model.EngagementStats{Totals: model.EngagementTotals{
		TotalLikes:       likes,
		TotalDislikes:    dislikes,
		TotalComments:    comments,
		TotalShares:      shares,
		EngagementRate:   rate,
		LikeDislikeRatio: ratio,
	}}
	return nil
}

func (r *StatsRepo) loadRevenue(ctx context.Context, channelID string, rng model.DateRange, bundle *model.AnalyticsBundle, monetized bool) error {
	var t model.RevenueTotals
	var currency string
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(estimated_revenue), 0), COALESCE(SUM(ad_revenue), 0),
		       COALESCE(SUM(monetized_playbacks), 0), COALESCE(SUM(ad_impressions), 0),
		       COALESCE(SUM(gross_revenue), 0), MAX(currency)
		FROM channel_revenue_daily
		WHERE channel_id = $1 AND day BETWEEN $2 AND $3
		HAVING COUNT(*) > 0`, channelID, rng.Start, rng.End).
		Scan(&t.EstimatedRevenue, &t.EstimatedAdRevenue, &t.MonetizedPlaybacks,
			&t.AdImpressions, &t.GrossRevenue, &currency)
	if err == pgx.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	if t.AdImpressions > 0 {
		t.CPM = roundRate(t.GrossRevenue / float64(t.AdImpressions) * 1000)
	}
	if views := bundle.Basic.Totals.TotalViews; views > 0 {
		t.RPM = roundRate(t.EstimatedRevenue / float64(views) * 1000)
	}

	status := model.MonetizationDisabled
	if monetized {
		status = model.MonetizationEnabled
	}
	bundle.Revenue = &model.RevenueStats{
		Totals:             t,
		MonetizationStatus: status,
		Currency:           currency,
	}
	return nil
}

func roundRate(v float64) float64 {
	return math.Round(v*100) / 100
}
