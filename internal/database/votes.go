// Screenlog - Movie Review API with TMDB Catalog Caching
// Copyright 2026 The Screenlog Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenlog/screenlog

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/screenlog/screenlog/internal/logging"
	"github.com/screenlog/screenlog/internal/metrics"
	"github.com/screenlog/screenlog/internal/models"
)

// resyncInterval is how often (in vote count) the running-mean aggregate is
// recomputed directly from the votes table, bounding float drift.
const resyncInterval = 500

// RecordVote stores or replaces one user's score for a movie and updates the
// movie's aggregate in the same transaction.
//
// A first vote extends the running mean; a repeat vote by the same user
// replaces their previous score without changing the count. Either path
// leaves vote_count equal to the number of rows in movie_votes for the
// movie. The movie must already be cached; voting cannot create movie rows.
func (db *DB) RecordVote(ctx context.Context, movieID int64, userID string, score int) (*models.RatingSummary, error) {
	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin vote transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var avg float64
	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT vote_average, vote_count FROM movies WHERE id = ?`, movieID).
		Scan(&avg, &count)
	if err != nil {
		metrics.RecordDBQuery("vote", "movie_votes", time.Since(start), err)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("movie %d: %w", movieID, ErrNotFound)
		}
		return nil, fmt.Errorf("reading aggregates for movie %d: %w", movieID, err)
	}

	var oldScore int
	hadVote := true
	err = tx.QueryRowContext(ctx,
		`SELECT score FROM movie_votes WHERE movie_id = ? AND user_id = ?`, movieID, userID).
		Scan(&oldScore)
	if errors.Is(err, sql.ErrNoRows) {
		hadVote = false
	} else if err != nil {
		metrics.RecordDBQuery("vote", "movie_votes", time.Since(start), err)
		return nil, fmt.Errorf("reading prior vote: %w", err)
	}

	if hadVote {
		_, err = tx.ExecContext(ctx,
			`UPDATE movie_votes SET score = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE movie_id = ? AND user_id = ?`, score, movieID, userID)
		if err == nil {
			// Count stays fixed: the user's old score swaps out of the mean.
			avg = (avg*float64(count) - float64(oldScore) + float64(score)) / float64(count)
		}
	} else {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO movie_votes (movie_id, user_id, score) VALUES (?, ?, ?)`,
			movieID, userID, score)
		if err == nil {
			count++
			avg = (avg*float64(count-1) + float64(score)) / float64(count)
		}
	}
	if err != nil {
		metrics.RecordDBQuery("vote", "movie_votes", time.Since(start), err)
		return nil, fmt.Errorf("writing vote: %w", err)
	}

	if count > 0 && count%resyncInterval == 0 {
		// Periodic exact recomputation from the vote rows.
		err = tx.QueryRowContext(ctx,
			`SELECT AVG(score), COUNT(*) FROM movie_votes WHERE movie_id = ?`, movieID).
			Scan(&avg, &count)
		if err != nil {
			metrics.RecordDBQuery("vote", "movie_votes", time.Since(start), err)
			return nil, fmt.Errorf("resyncing aggregates for movie %d: %w", movieID, err)
		}
		logging.Debug().Int64("movie_id", movieID).Int("vote_count", count).Msg("Vote aggregate resynced")
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE movies SET vote_average = ?, vote_count = ? WHERE id = ?`,
		avg, count, movieID)
	if err != nil {
		metrics.RecordDBQuery("vote", "movie_votes", time.Since(start), err)
		return nil, fmt.Errorf("updating aggregates for movie %d: %w", movieID, err)
	}

	if err := tx.Commit(); err != nil {
		metrics.RecordDBQuery("vote", "movie_votes", time.Since(start), err)
		return nil, fmt.Errorf("committing vote: %w", err)
	}
	metrics.RecordDBQuery("vote", "movie_votes", time.Since(start), nil)

	if hadVote {
		metrics.VotesRecorded.WithLabelValues("revote").Inc()
	} else {
		metrics.VotesRecorded.WithLabelValues("new").Inc()
	}

	return &models.RatingSummary{
		MovieID:      movieID,
		Score:        score,
		AverageScore: avg,
		TotalVotes:   count,
	}, nil
}

// GetUserVote returns the score a user has recorded for a movie.
// Returns ErrNotFound when the user has not voted.
func (db *DB) GetUserVote(ctx context.Context, movieID int64, userID string) (*models.Vote, error) {
	start := time.Now()

	var v models.Vote
	err := db.conn.QueryRowContext(ctx,
		`SELECT movie_id, user_id, score, created_at, updated_at
		 FROM movie_votes WHERE movie_id = ? AND user_id = ?`, movieID, userID).
		Scan(&v.MovieID, &v.UserID, &v.Score, &v.CreatedAt, &v.UpdatedAt)
	metrics.RecordDBQuery("select", "movie_votes", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("vote for movie %d by %s: %w", movieID, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("get vote: %w", err)
	}
	return &v, nil
}

// CountVotes returns the number of vote rows for a movie.
func (db *DB) CountVotes(ctx context.Context, movieID int64) (int, error) {
	start := time.Now()

	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM movie_votes WHERE movie_id = ?`, movieID).Scan(&count)
	metrics.RecordDBQuery("count", "movie_votes", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("count votes for movie %d: %w", movieID, err)
	}
	return count, nil
}
