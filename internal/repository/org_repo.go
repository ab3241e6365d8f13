package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

type OrgRepo struct {
	pool *pgxpool.Pool
}

func NewOrgRepo(pool *pgxpool.Pool) *OrgRepo {
	return &OrgRepo{pool: pool}
}

// FindBranch returns a branch by its ID.
func (r *OrgRepo) FindBranch(ctx context.Context, branchID string) (*model.Branch, error) {
	var b model.Branch
	err := r.pool.QueryRow(ctx, `
		SELECT branch_id, name FROM branches WHERE branch_id = $1`, branchID).
		Scan(&b.BranchID, &b.Name)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindTeam returns a team by its ID.
func (r *OrgRepo) FindTeam(ctx context.Context, teamID string) (*model.Team, error) {
	var t model.Team
	err := r.pool.QueryRow(ctx, `
		SELECT team_id, branch_id, name FROM teams WHERE team_id = $1`, teamID).
		Scan(&t.TeamID, &t.BranchID, &t.Name)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTeamChannelIDs returns the channel IDs belonging to a team, ordered by
// registration time for stable rollup and ranking order.
func (r *OrgRepo) ListTeamChannelIDs(ctx context.Context, teamID string) ([]string, error) {
	return r.listChannelIDs(ctx, `
		SELECT channel_id
		FROM channels
		WHERE team_id = $1
		ORDER BY added_at ASC, channel_id ASC`, teamID)
}

// ListBranchChannelIDs returns the channel IDs of every team in the branch.
func (r *OrgRepo) ListBranchChannelIDs(ctx context.Context, branchID string) ([]string, error) {
	return r.listChannelIDs(ctx, `
		SELECT c.channel_id
		FROM channels c
		JOIN teams t ON t.team_id = c.team_id
		WHERE t.branch_id = $1
		ORDER BY c.added_at ASC, c.channel_id ASC`, branchID)
}

// CountTeams returns the number of teams in a branch.
func (r *OrgRepo) CountTeams(ctx context.Context, branchID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM teams WHERE branch_id = $1`, branchID).Scan(&n)
	return n, err
}

func (r *OrgRepo) listChannelIDs(ctx context.Context, query string, arg any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, arg)
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
