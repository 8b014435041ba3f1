package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// LLMCallRecord is one audit row per provider request made by the worker.
type LLMCallRecord struct {
	CallID       string
	Operation    string
	RunID        string
	PaperID      string
	ProviderName string
	Model        string
	Status       string
	ErrorType    string
}

type LLMAuditRepo struct {
	db *DB
}

func NewLLMAuditRepo(db *DB) *LLMAuditRepo {
	return &LLMAuditRepo{db: db}
}

func (r *LLMAuditRepo) Insert(ctx context.Context, rec LLMCallRecord) error {
	if rec.CallID == "" {
		rec.CallID = uuid.NewString()
	}
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO llm_calls(call_id, operation, run_id, paper_id, provider_name, model, status, error_type)
VALUES ($1::uuid, $2, NULLIF($3,'')::uuid, NULLIF($4,''), $5, $6, $7, NULLIF($8,''))`,
		rec.CallID, rec.Operation, rec.RunID, rec.PaperID, rec.ProviderName, rec.Model, rec.Status, rec.ErrorType)
	if err != nil {
		return fmt.Errorf("insert llm call: %w", err)
	}
	return nil
}
