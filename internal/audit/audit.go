package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Role identifies the kind of actor behind an audit entry
type Role string

const (
	RoleSystem Role = "System"
	RolePV     Role = "PV"
	RoleAI     Role = "AI"
)

// Well-known action labels emitted by the case lifecycle
const (
	ActionCaseCreated       = "Case Created"
	ActionRiskAssessed      = "Risk Assessment Completed"
	ActionFollowUpSent      = "Follow-Up Sent"
	ActionFollowUpResponses = "Follow-Up Responses Received"
	ActionClinicalReview    = "Clinical Follow-Up Submitted"
)

// Entry represents one immutable audit trail record. Entries are never
// updated or deleted after creation.
type Entry struct {
	ID        string                 `json:"id"`
	CaseID    *string                `json:"case_id,omitempty"`
	Action    string                 `json:"action"`
	Role      Role                   `json:"user_role"`
	ActorID   string                 `json:"user_id"`
	Details   map[string]interface{} `json:"details,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Trail appends and reads audit entries
type Trail struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewTrail creates a new audit trail backed by the given pool
func NewTrail(db *pgxpool.Pool, logger *zap.Logger) *Trail {
	return &Trail{
		db:     db,
		logger: logger,
	}
}

// Append writes the given entries in order. The first failure stops the
// batch and is returned; already-written entries stay in place since the
// trail is append-only.
func (t *Trail) Append(ctx context.Context, entries ...Entry) error {
	for i := range entries {
		if err := t.append(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (t *Trail) append(ctx context.Context, entry *Entry) error {
	// Set timestamp if not provided
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	// Log to structured logger first
	caseID := ""
	if entry.CaseID != nil {
		caseID = *entry.CaseID
	}
	t.logger.Info("Audit trail entry",
		zap.String("case_id", caseID),
		zap.String("action", entry.Action),
		zap.String("role", string(entry.Role)),
		zap.String("actor_id", entry.ActorID),
		zap.Time("created_at", entry.CreatedAt),
		zap.String("ip_address", entry.IPAddress),
	)

	// Store in database
	query := `
		INSERT INTO audit_logs (
			case_id, action, user_role, user_id,
			details, ip_address, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := t.db.QueryRow(ctx, query,
		entry.CaseID,
		entry.Action,
		entry.Role,
		entry.ActorID,
		entry.Details,
		entry.IPAddress,
		entry.CreatedAt,
	).Scan(&entry.ID)

	if err != nil {
		t.logger.Error("Failed to write audit entry to database",
			zap.Error(err),
			zap.String("case_id", caseID),
			zap.String("action", entry.Action),
			zap.String("role", string(entry.Role)),
		)
		return fmt.Errorf("failed to write audit entry: %w", err)
	}

	return nil
}

// ListByCase retrieves audit entries for a case, newest first
func (t *Trail) ListByCase(ctx context.Context, caseID string) ([]Entry, error) {
	query := `
		SELECT id, case_id, action, user_role, user_id,
		       details, ip_address, created_at
		FROM audit_logs
		WHERE case_id = $1
		ORDER BY created_at DESC
	`

	rows, err := t.db.Query(ctx, query, caseID)
	if err != nil {
		t.logger.Error("failed to list audit entries", zap.Error(err), zap.String("case_id", caseID))
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var ip *string
		err := rows.Scan(
			&entry.ID,
			&entry.CaseID,
			&entry.Action,
			&entry.Role,
			&entry.ActorID,
			&entry.Details,
			&ip,
			&entry.CreatedAt,
		)
		if err != nil {
			t.logger.Error("failed to scan audit entry", zap.Error(err))
			continue
		}
		if ip != nil {
			entry.IPAddress = *ip
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		t.logger.Error("error iterating audit entries", zap.Error(err))
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}

	return entries, nil
}
