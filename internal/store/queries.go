package store

// SQL query constants organized by entity.
// All SQL lives here — PostgresStore methods reference these constants.

// Basket item queries.
const (
	queryUpsertItem = `
		INSERT INTO basket_items (title, url, quantity, deals, created_at, updated_at)
		VALUES (@title, @url, @quantity, @deals, now(), now())
		ON CONFLICT (title) DO UPDATE SET
			url = EXCLUDED.url,
			quantity = EXCLUDED.quantity,
			deals = EXCLUDED.deals,
			updated_at = now()
		RETURNING created_at, updated_at`

	queryGetItem = `
		SELECT title, url, quantity, deals, created_at, updated_at
		FROM basket_items
		WHERE title = $1`

	queryListItems = `
		SELECT title, url, quantity, deals, created_at, updated_at
		FROM basket_items
		ORDER BY created_at ASC`

	queryUpdateItemQuantity = `
		UPDATE basket_items SET quantity = $2, updated_at = now()
		WHERE title = $1`

	queryDeleteItem = `
		DELETE FROM basket_items WHERE title = $1`

	queryClearBasket = `
		DELETE FROM basket_items`

	queryCountItems = `
		SELECT COUNT(*) FROM basket_items`
)

// Deal result queries. Results live in a single-row snapshot table.
const (
	querySaveResults = `
		INSERT INTO deal_results (id, individual, cumulative, overall, computed_at)
		VALUES (1, @individual, @cumulative, @overall, @computed_at)
		ON CONFLICT (id) DO UPDATE SET
			individual = EXCLUDED.individual,
			cumulative = EXCLUDED.cumulative,
			overall = EXCLUDED.overall,
			computed_at = EXCLUDED.computed_at`

	queryGetResults = `
		SELECT individual, cumulative, overall, computed_at
		FROM deal_results
		WHERE id = 1`

	queryClearResults = `
		DELETE FROM deal_results`
)

// Job run queries.
const (
	queryInsertJobRun = `
		INSERT INTO job_runs (job_name, started_at, status)
		VALUES ($1, now(), 'running')
		RETURNING id`

	queryCompleteJobRun = `
		UPDATE job_runs SET
			completed_at = now(),
			status = $2,
			error_text = $3,
			rows_affected = $4
		WHERE id = $1`

	queryListJobRuns = `
		SELECT id, job_name, started_at, completed_at, status,
			COALESCE(error_text, ''), rows_affected
		FROM job_runs
		WHERE job_name = $1
		ORDER BY started_at DESC
		LIMIT $2`
)
