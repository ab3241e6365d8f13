package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

type ChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

// FindByChannelID returns a single registered channel by its ID.
func (r *ChannelRepo) FindByChannelID(ctx context.Context, channelID string) (*model.Channel, error) {
	query := `
		SELECT channel_id, name, group_id, team_id, monetized, added_at, last_fetched
		FROM channels
		WHERE channel_id = $1`

	var ch model.Channel
	err := r.pool.QueryRow(ctx, query, channelID).Scan(
		&ch.ChannelID, &ch.Name, &ch.GroupID, &ch.TeamID,
		&ch.Monetized, &ch.AddedAt, &ch.LastFetched,
	)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// FindGroup returns a channel group by its ID.
func (r *ChannelRepo) FindGroup(ctx context.Context, groupID string) (*model.ChannelGroup, error) {
	query := `
		SELECT group_id, name, owner_id, created_at
		FROM channel_groups
		WHERE group_id = $1`

	var g model.ChannelGroup
	err := r.pool.QueryRow(ctx, query, groupID).Scan(
		&g.GroupID, &g.Name, &g.OwnerID, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGroupChannelIDs returns the channel IDs of a group in selection order.
// Position order is load-bearing: it is the tie-break order for comparison
// views and leaderboards.
func (r *ChannelRepo) ListGroupChannelIDs(ctx context.Context, groupID string) ([]string, error) {
	query := `
		SELECT channel_id
		FROM channel_group_members
		WHERE group_id = $1
		ORDER BY position ASC`

	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListChannelNames returns a channelID→name map for the given IDs.
func (r *ChannelRepo) ListChannelNames(ctx context.Context, channelIDs []string) (map[string]string, error) {
	query := `
		SELECT channel_id, name
		FROM channels
		WHERE channel_id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, channelIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]string, len(channelIDs))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

// TouchLastFetched records a successful analytics fetch for the channel.
func (r *ChannelRepo) TouchLastFetched(ctx context.Context, channelID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE channels SET last_fetched = NOW() WHERE channel_id = $1`, channelID)
	return err
}
