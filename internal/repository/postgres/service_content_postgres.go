package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"hammercms/internal/model"
	"hammercms/internal/repository"
)

// LoadContent returns every sub-content section of one division, each
// ordered by sort_order.
func (r *ServicePostgres) LoadContent(ctx context.Context, serviceID string) (*repository.ServiceContent, error) {
	content := &repository.ServiceContent{
		Features:     []model.ServiceFeature{},
		Capabilities: []model.ServiceCapability{},
		ProcessSteps: []model.ServiceProcessStep{},
		FAQs:         []model.ServiceFAQ{},
		Testimonials: []model.ServiceTestimonial{},
	}

	err := queryRows(ctx, r.db,
		`SELECT id, service_id, icon_class, label, sort_order FROM service_features WHERE service_id = $1 ORDER BY sort_order, id`,
		serviceID,
		func(rows *sql.Rows) error {
			var f model.ServiceFeature
			if err := rows.Scan(&f.ID, &f.ServiceID, &f.IconClass, &f.Label, &f.SortOrder); err != nil {
				return err
			}
			content.Features = append(content.Features, f)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}

	err = queryRows(ctx, r.db,
		`SELECT id, service_id, title, blurb, icon_class, sort_order FROM service_capabilities WHERE service_id = $1 ORDER BY sort_order, id`,
		serviceID,
		func(rows *sql.Rows) error {
			var c model.ServiceCapability
			if err := rows.Scan(&c.ID, &c.ServiceID, &c.Title, &c.Blurb, &c.IconClass, &c.SortOrder); err != nil {
				return err
			}
			content.Capabilities = append(content.Capabilities, c)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load capabilities: %w", err)
	}

	err = queryRows(ctx, r.db,
		`SELECT id, service_id, step_no, title, description, sort_order FROM service_process_steps WHERE service_id = $1 ORDER BY sort_order, step_no, id`,
		serviceID,
		func(rows *sql.Rows) error {
			var p model.ServiceProcessStep
			if err := rows.Scan(&p.ID, &p.ServiceID, &p.StepNo, &p.Title, &p.Description, &p.SortOrder); err != nil {
				return err
			}
			content.ProcessSteps = append(content.ProcessSteps, p)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load process steps: %w", err)
	}

	err = queryRows(ctx, r.db,
		`SELECT id, service_id, question, answer, sort_order FROM service_faqs WHERE service_id = $1 ORDER BY sort_order, id`,
		serviceID,
		func(rows *sql.Rows) error {
			var f model.ServiceFAQ
			if err := rows.Scan(&f.ID, &f.ServiceID, &f.Question, &f.Answer, &f.SortOrder); err != nil {
				return err
			}
			content.FAQs = append(content.FAQs, f)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load faqs: %w", err)
	}

	err = queryRows(ctx, r.db,
		`SELECT id, service_id, author, role_company, quote, headshot_url, sort_order FROM service_testimonials WHERE service_id = $1 ORDER BY sort_order, id`,
		serviceID,
		func(rows *sql.Rows) error {
			var tm model.ServiceTestimonial
			if err := rows.Scan(&tm.ID, &tm.ServiceID, &tm.Author, &tm.RoleCompany, &tm.Quote, &tm.HeadshotURL, &tm.SortOrder); err != nil {
				return err
			}
			content.Testimonials = append(content.Testimonials, tm)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load testimonials: %w", err)
	}

	return content, nil
}

// ReplaceContent rewrites every sub-content section of one division inside
// a single transaction. The caller has already assigned fresh IDs.
func (r *ServicePostgres) ReplaceContent(ctx context.Context, serviceID string, content *repository.ServiceContent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"service_features", "service_capabilities", "service_process_steps", "service_faqs", "service_testimonials"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE service_id = $1", serviceID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, f := range content.Features {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO service_features (id, service_id, icon_class, label, sort_order) VALUES ($1, $2, $3, $4, $5)`,
			f.ID, serviceID, f.IconClass, f.Label, f.SortOrder); err != nil {
			return fmt.Errorf("insert feature: %w", err)
		}
	}
	for _, c := range content.Capabilities {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO service_capabilities (id, service_id, title, blurb, icon_class, sort_order) VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ID, serviceID, c.Title, c.Blurb, c.IconClass, c.SortOrder); err != nil {
			return fmt.Errorf("insert capability: %w", err)
		}
	}
	for _, p := range content.ProcessSteps {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO service_process_steps (id, service_id, step_no, title, description, sort_order) VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, serviceID, p.StepNo, p.Title, p.Description, p.SortOrder); err != nil {
			return fmt.Errorf("insert process step: %w", err)
		}
	}
	for _, f := range content.FAQs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO service_faqs (id, service_id, question, answer, sort_order) VALUES ($1, $2, $3, $4, $5)`,
			f.ID, serviceID, f.Question, f.Answer, f.SortOrder); err != nil {
			return fmt.Errorf("insert faq: %w", err)
		}
	}
	for _, tm := range content.Testimonials {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO service_testimonials (id, service_id, author, role_company, quote, headshot_url, sort_order) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			tm.ID, serviceID, tm.Author, tm.RoleCompany, tm.Quote, tm.HeadshotURL, tm.SortOrder); err != nil {
			return fmt.Errorf("insert testimonial: %w", err)
		}
	}

	return tx.Commit()
}

func queryRows(ctx context.Context, db *sql.DB, q string, serviceID string, scan func(rows *sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, q, serviceID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
