package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "match_number").
		From("matchdays").
		Where(Eq("group_id", "410"), IsNull("meeting_id")).
		OrderBy("match_date ASC").
		Limit(25).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, match_number FROM matchdays WHERE group_id = $1 AND meeting_id IS NULL ORDER BY match_date ASC LIMIT 25"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "410" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderGroupBy(t *testing.T) {
	query, args, err := Select("matchday_id", "COUNT(*) AS attempts").
		From("import_attempts").
		Where(In("matchday_id", []any{"m1", "m2"})).
		GroupBy("matchday_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT matchday_id, COUNT(*) AS attempts FROM import_attempts WHERE matchday_id IN ($1, $2) GROUP BY matchday_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "m1" || args[1] != "m2" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderUpsertSuffix(t *testing.T) {
	query, args, err := InsertInto("matchdays").
		Columns("id", "status").
		Values("m1", "SCHEDULED").
		Suffix("ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO matchdays (id, status) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "m1" || args[1] != "SCHEDULED" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("matchdays").
		Set("meeting_id", "9001").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "m1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matchdays SET meeting_id = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "9001" || args[1] != "m1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("match_results").
		Where(Eq("matchday_id", "m1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM match_results WHERE matchday_id = $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "m1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilderRequiresConditions(t *testing.T) {
	if _, _, err := DeleteFrom("match_results").ToSQL(); err == nil {
		t.Fatal("expected error for delete without conditions")
	}
}
