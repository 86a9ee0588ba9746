package driver

var IndexQueries = []string{
	"CREATE INDEX ON :Gene(symbol);",
	"CREATE INDEX ON :Gene(run_id);",
}

const (
	// SaveGeneQuery upserts one gene of one run. A gene sampled by two runs
	// becomes two nodes, keyed by (symbol, run_id).
	SaveGeneQuery = `
		MERGE (g:Gene {symbol: $symbol, run_id: $run_id})
		SET g.model = $model,
			g.cancer = $cancer,
			g.heart_disease = $heart_disease,
			g.diabetes = $diabetes,
			g.dementia = $dementia,
			g.synthesized = $synthesized,
			g.evidence = $evidence,
			g.exported_at = $exported_at
		RETURN g.symbol AS symbol
	`

	SaveInteractionQuery = `
		MATCH (a:Gene {symbol: $source, run_id: $run_id})
		MATCH (b:Gene {symbol: $target, run_id: $run_id})
		MERGE (a)-[r:INTERACTS_WITH {run_id: $run_id}]->(b)
		SET r.evidence = $evidence
		RETURN type(r) AS type
	`

	DeleteRunQuery = `
		MATCH (g:Gene {run_id: $run_id})
		DETACH DELETE g
	`

	GetRunGenesQuery = `
		MATCH (g:Gene {run_id: $run_id})
		RETURN g.symbol AS symbol, g.cancer AS cancer, g.heart_disease AS heart_disease,
			g.diabetes AS diabetes, g.dementia AS dementia
		ORDER BY symbol
	`

	GetInteractionsQuery = `
		MATCH (a:Gene {run_id: $run_id})-[:INTERACTS_WITH]->(b:Gene {run_id: $run_id})
		RETURN a.symbol AS source, b.symbol AS target
		ORDER BY source, target
	`
)
