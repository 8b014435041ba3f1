package storage

import (
	"context"
	"fmt"
	"time"

	"paperlens/internal/models"
)

// PaperRow is the persisted view of a paper. Content itself stays on disk;
// the table only tracks ingest metadata and processing status.
type PaperRow struct {
	PaperID    string
	FilePath   string
	PaperType  string
	Title      string
	Author     string
	Pages      int
	WordCount  int
	Status     string
	FailReason string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PaperRepo struct {
	db *DB
}

func NewPaperRepo(db *DB) *PaperRepo {
	return &PaperRepo{db: db}
}

func (r *PaperRepo) UpsertPaper(ctx context.Context, p *models.Paper, runID string) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO papers (paper_id, run_id, file_path, paper_type, title, author, pages, word_count, status)
VALUES ($1, NULLIF($2,'')::uuid, $3, $4, NULLIF($5,''), NULLIF($6,''), $7, $8, 'pending')
ON CONFLICT (paper_id)
DO UPDATE SET
  run_id = COALESCE(EXCLUDED.run_id, papers.run_id),
  file_path = EXCLUDED.file_path,
  title = COALESCE(EXCLUDED.title, papers.title),
  author = COALESCE(EXCLUDED.author, papers.author),
  pages = EXCLUDED.pages,
  word_count = EXCLUDED.word_count,
  updated_at = NOW()`,
		p.ID, runID, p.FilePath, string(p.PaperType), p.Metadata.Title, p.Metadata.Author, p.Metadata.Pages, p.WordCount(),
	)
	if err != nil {
		return fmt.Errorf("upsert paper: %w", err)
	}
	return nil
}

func (r *PaperRepo) UpdatePaperStatus(ctx context.Context, paperID, status, failReason string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE papers SET status=$2, fail_reason=NULLIF($3,''), updated_at=NOW() WHERE paper_id=$1`,
		paperID, status, failReason)
	if err != nil {
		return fmt.Errorf("update paper status: %w", err)
	}
	return nil
}

func (r *PaperRepo) ListPapersByRun(ctx context.Context, runID string) ([]PaperRow, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT paper_id, file_path, paper_type, COALESCE(title,''), COALESCE(author,''), pages, word_count,
       status, COALESCE(fail_reason,''), created_at, updated_at
FROM papers
WHERE run_id=$1
ORDER BY created_at`, runID)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	defer rows.Close()

	out := make([]PaperRow, 0)
	for rows.Next() {
		var p PaperRow
		if err := rows.Scan(&p.PaperID, &p.FilePath, &p.PaperType, &p.Title, &p.Author, &p.Pages, &p.WordCount,
			&p.Status, &p.FailReason, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan paper: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate papers: %w", err)
	}
	return out, nil
}
