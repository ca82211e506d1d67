package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"resume-analyzer/internal/analyses/recommendations"
	"resume-analyzer/internal/skills"
	"resume-analyzer/internal/taxonomy"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `
SELECT id, user_id, file_name, storage_key, name, email, phone, page_count, skills,
       track, level, classification, recommendations, pitch, created_at
FROM analyses`

type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (
	id, user_id, file_name, storage_key, name, email, phone, page_count, skills,
	track, level, classification, recommendations, pitch, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	skillsPayload, err := marshalJSONB(nonNilStrings(analysis.Record.Skills))
	if err != nil {
		return err
	}
	classificationPayload, err := marshalJSONB(analysis.Classification)
	if err != nil {
		return err
	}
	recommendationsPayload, err := marshalJSONB(analysis.Recommendations)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.UserID,
		analysis.FileName,
		nullString(analysis.StorageKey),
		analysis.Record.Name,
		analysis.Record.Email,
		analysis.Record.Phone,
		analysis.Record.PageCount,
		skillsPayload,
		string(analysis.Classification.Track),
		string(analysis.Classification.Level),
		classificationPayload,
		recommendationsPayload,
		analysis.Pitch,
		analysis.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis id=%s: %w", analysis.ID, err)
	}
	return nil
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	row := r.DB.QueryRowContext(ctx, selectColumns+`
WHERE id = $1
LIMIT 1`, analysisID)
	a, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, fmt.Errorf("get analysis id=%s: %w", analysisID, err)
	}
	return a, nil
}

// ListByUser returns analyses for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	limit, offset = normalizePage(limit, offset)

	rows, err := r.DB.QueryContext(ctx, selectColumns+`
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list analyses user=%s: %w", userID, err)
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var storageKey sql.NullString
	var email sql.NullString
	var phone sql.NullString
	var skillsRaw []byte
	var track string
	var level string
	var classificationRaw []byte
	var recommendationsRaw []byte
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.FileName,
		&storageKey,
		&a.Record.Name,
		&email,
		&phone,
		&a.Record.PageCount,
		&skillsRaw,
		&track,
		&level,
		&classificationRaw,
		&recommendationsRaw,
		&a.Pitch,
		&a.CreatedAt,
	); err != nil {
		return Analysis{}, err
	}
	if storageKey.Valid {
		a.StorageKey = storageKey.String
	}
	if email.Valid {
		a.Record.Email = &email.String
	}
	if phone.Valid {
		a.Record.Phone = &phone.String
	}

	a.Record.Skills = []string{}
	if len(skillsRaw) > 0 {
		if err := json.Unmarshal(skillsRaw, &a.Record.Skills); err != nil {
			return Analysis{}, fmt.Errorf("decode skills: %w", err)
		}
	}
	if len(classificationRaw) > 0 {
		if err := json.Unmarshal(classificationRaw, &a.Classification); err != nil {
			return Analysis{}, fmt.Errorf("decode classification: %w", err)
		}
	}
	// Columns win over the JSON copy.
	a.Classification.Track = taxonomy.Track(track)
	a.Classification.Level = skills.Level(level)

	a.Recommendations = recommendations.Bundle{SkillSuggestions: []string{}, Resources: []recommendations.Resource{}}
	if len(recommendationsRaw) > 0 {
		if err := json.Unmarshal(recommendationsRaw, &a.Recommendations); err != nil {
			return Analysis{}, fmt.Errorf("decode recommendations: %w", err)
		}
	}
	return a, nil
}

func marshalJSONB(value any) ([]byte, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	return payload, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

var _ Repo = (*PGRepo)(nil)
