package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"marketdash/internal/domain/model"
)

type PostgresAdapter struct {
	db *sql.DB
}

func NewPostgresAdapter(connStr string) (*PostgresAdapter, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresAdapter{db: db}, nil
}

func (a *PostgresAdapter) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS opportunities (
		id SERIAL PRIMARY KEY,
		kind VARCHAR(20) NOT NULL,
		label VARCHAR(40) NOT NULL,
		profit_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
		payload JSONB NOT NULL,
		created_at TIMESTAMP DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_opportunities_kind_created ON opportunities(kind, created_at);
	`
	_, err := a.db.ExecContext(ctx, query)
	return err
}

func (a *PostgresAdapter) SaveOpportunities(ctx context.Context, opps []model.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO opportunities (kind, label, profit_percentage, payload) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, opp := range opps {
		payload := opp.Raw
		if payload == nil {
			payload, err = json.Marshal(opp)
			if err != nil {
				return fmt.Errorf("failed to marshal opportunity: %w", err)
			}
		}
		if _, err := stmt.ExecContext(ctx, string(opp.Kind), opp.Label(), profitOf(opp), []byte(payload)); err != nil {
			return fmt.Errorf("failed to insert opportunity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit opportunities: %w", err)
	}
	return nil
}

func (a *PostgresAdapter) GetRecentOpportunities(ctx context.Context, kind model.OpportunityKind, limit int) ([]model.Opportunity, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT kind, payload FROM opportunities`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, string(kind))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query opportunities: %w", err)
	}
	defer rows.Close()

	var out []model.Opportunity
	for rows.Next() {
		var k string
		var payload []byte
		if err := rows.Scan(&k, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan opportunity row: %w", err)
		}
		out = append(out, rehydrate(model.OpportunityKind(k), payload))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate opportunity rows: %w", err)
	}

	return out, nil
}

// rehydrate rebuilds the tagged record from the stored raw payload. A payload
// that no longer parses into its recorded kind is returned as unknown rather
// than dropped.
func rehydrate(kind model.OpportunityKind, payload []byte) model.Opportunity {
	opp := model.Opportunity{Kind: kind, Raw: json.RawMessage(payload)}

	var err error
	switch kind {
	case model.OpportunityDirect:
		var d model.DirectOpportunity
		if err = json.Unmarshal(payload, &d); err == nil {
			opp.Direct = &d
		}
	case model.OpportunityCoinCap:
		var c model.CoinCapOpportunity
		if err = json.Unmarshal(payload, &c); err == nil {
			opp.CoinCap = &c
		}
	case model.OpportunityCrossRate:
		var x model.CrossRateOpportunity
		if err = json.Unmarshal(payload, &x); err == nil {
			opp.CrossRate = &x
		}
	}
	if err != nil {
		opp.Kind = model.OpportunityUnknown
	}
	return opp
}

func profitOf(opp model.Opportunity) float64 {
	switch opp.Kind {
	case model.OpportunityDirect:
		return opp.Direct.ProfitPercentage
	case model.OpportunityCoinCap:
		return opp.CoinCap.PercentageDifference
	case model.OpportunityCrossRate:
		return opp.CrossRate.ProfitPercentage
	}
	return 0
}

func (a *PostgresAdapter) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return a.db.PingContext(ctx)
}

func (a *PostgresAdapter) Close() error {
	return a.db.Close()
}
