package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is a suggestion's position in the review queue.
type Status string

const (
	StatusAuto     Status = "auto"
	StatusReview   Status = "review"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusApplied  Status = "applied"
)

// ErrInvalidTransition reports a status change the review queue does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// ParseStatus validates a review status name.
func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	switch status {
	case StatusAuto, StatusReview, StatusAccepted, StatusRejected, StatusApplied:
		return status, nil
	default:
		return "", fmt.Errorf("unknown suggestion status %q", value)
	}
}

// pending reports whether diagnose still owns the row.
func (s Status) pending() bool {
	return s == StatusAuto || s == StatusReview
}

// Suggestion is a persisted alias proposal.
type Suggestion struct {
	ID        int64
	Source    string
	Raw       string
	Cleaned   string
	Candidate string
	Score     float64
	Status    Status
	Reason    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertResult counts how an upsert batch landed.
type UpsertResult struct {
	Inserted int
	Updated  int
	// Kept counts rows left alone because an operator already decided them.
	Kept int
}

// Filter narrows ListSuggestions.
type Filter struct {
	Source   string
	Statuses []Status
}

const suggestionColumns = "id, source, raw_name, cleaned, candidate, score, status, reason, created_at, updated_at"

// UpsertSuggestions writes proposals keyed by (source, raw name). Pending
// rows are refreshed with the latest candidate; accepted, rejected, and
// applied rows keep their decision.
func (s *Store) UpsertSuggestions(ctx context.Context, suggestions []Suggestion) (UpsertResult, error) {
	var result UpsertResult
	if len(suggestions) == 0 {
		return result, nil
	}
	ts := s.timestamp()
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		result = UpsertResult{}
		for _, sg := range suggestions {
			if sg.Status == "" {
				sg.Status = StatusReview
			}
			var (
				id      int64
				current string
			)
			err := tx.QueryRowContext(ctx,
				`SELECT id, status FROM suggestions WHERE source = ? AND raw_name = ?`, sg.Source, sg.Raw,
			).Scan(&id, &current)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO suggestions (source, raw_name, cleaned, candidate, score, status, reason, created_at, updated_at)
                     VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					sg.Source, sg.Raw, sg.Cleaned, sg.Candidate, sg.Score, sg.Status, nullIfEmpty(sg.Reason), ts, ts,
				); err != nil {
					return fmt.Errorf("insert suggestion %s/%s: %w", sg.Source, sg.Raw, err)
				}
				result.Inserted++
			case err != nil:
				return fmt.Errorf("lookup suggestion %s/%s: %w", sg.Source, sg.Raw, err)
			case !Status(current).pending():
				result.Kept++
			default:
				if _, err := tx.ExecContext(ctx,
					`UPDATE suggestions SET cleaned = ?, candidate = ?, score = ?, status = ?, reason = ?, updated_at = ? WHERE id = ?`,
					sg.Cleaned, sg.Candidate, sg.Score, sg.Status, nullIfEmpty(sg.Reason), ts, id,
				); err != nil {
					return fmt.Errorf("update suggestion %d: %w", id, err)
				}
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return UpsertResult{}, err
	}
	return result, nil
}

// ListSuggestions returns suggestions matching filter, best score first.
func (s *Store) ListSuggestions(ctx context.Context, filter Filter) ([]Suggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM suggestions`
	var (
		clauses []string
		args    []any
	)
	if source := strings.TrimSpace(filter.Source); source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, source)
	}
	if len(filter.Statuses) > 0 {
		clauses = append(clauses, "status IN ("+placeholders(len(filter.Statuses))+")")
		for _, status := range filter.Statuses {
			args = append(args, status)
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY score DESC, source, raw_name"

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		sg, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		out = append(out, *sg)
	}
	return out, rows.Err()
}

// GetSuggestion fetches a suggestion by ID.
func (s *Store) GetSuggestion(ctx context.Context, id int64) (*Suggestion, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+suggestionColumns+` FROM suggestions WHERE id = ?`, id)
	sg, err := scanSuggestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("suggestion %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get suggestion: %w", err)
	}
	return sg, nil
}

// SetStatus records an operator decision. Only accepted and rejected may be
// set, and applied suggestions are final.
func (s *Store) SetStatus(ctx context.Context, id int64, status Status) (*Suggestion, error) {
	if status != StatusAccepted && status != StatusRejected {
		return nil, fmt.Errorf("%w: cannot set %q directly", ErrInvalidTransition, status)
	}
	current, err := s.GetSuggestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusApplied {
		return nil, fmt.Errorf("%w: suggestion %d is already applied", ErrInvalidTransition, id)
	}
	if current.Status == status {
		return current, nil
	}
	if _, err := s.execWithRetry(ctx,
		`UPDATE suggestions SET status = ?, updated_at = ? WHERE id = ?`, status, s.timestamp(), id,
	); err != nil {
		return nil, fmt.Errorf("update suggestion status: %w", err)
	}
	return s.GetSuggestion(ctx, id)
}

// Applicable returns the suggestions ready to be written to the alias table.
func (s *Store) Applicable(ctx context.Context) ([]Suggestion, error) {
	return s.ListSuggestions(ctx, Filter{Statuses: []Status{StatusAuto, StatusAccepted}})
}

// MarkApplied moves the given suggestions to applied.
func (s *Store) MarkApplied(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, 0, len(ids)+2)
	args = append(args, StatusApplied, s.timestamp())
	for _, id := range ids {
		args = append(args, id)
	}
	if _, err := s.execWithRetry(ctx,
		`UPDATE suggestions SET status = ?, updated_at = ? WHERE id IN (`+placeholders(len(ids))+`)`,
		args...,
	); err != nil {
		return fmt.Errorf("mark suggestions applied: %w", err)
	}
	return nil
}

// CountByStatus tallies suggestions per status.
func (s *Store) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM suggestions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count suggestions: %w", err)
	}
	defer rows.Close()

	out := make(map[Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan suggestion count: %w", err)
		}
		out[Status(status)] = count
	}
	return out, rows.Err()
}

func scanSuggestion(scanner interface{ Scan(dest ...any) error }) (*Suggestion, error) {
	var (
		sg         Suggestion
		status     string
		reason     sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&sg.ID,
		&sg.Source,
		&sg.Raw,
		&sg.Cleaned,
		&sg.Candidate,
		&sg.Score,
		&status,
		&reason,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	sg.Status = Status(status)
	sg.Reason = reason.String
	if created, err := parseStamp(createdRaw); err == nil {
		sg.CreatedAt = created
	}
	if updated, err := parseStamp(updatedRaw); err == nil {
		sg.UpdatedAt = updated
	}
	return &sg, nil
}
